package bus

import (
	"crypto/sha256"
	"encoding/hex"
)

// ChannelID derives a channel name from the raw token string. The
// derivation works on the token's bytes, not its decoded payload, so
// distinct token strings never share a channel and no verification is
// needed to address one.
func ChannelID(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
