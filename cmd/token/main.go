package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Ibragim1996/stream-overlay/internal/token"
)

func main() {
	name := flag.String("name", "", "Streamer display name (token subject)")
	ttl := flag.Duration("ttl", 6*time.Hour, "Token lifetime (min 60s)")
	secret := flag.String("secret", os.Getenv("OVERLAY_SECRET"), "Signing secret (defaults to OVERLAY_SECRET)")
	flag.Parse()

	if *name == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "Usage: token -name <streamer> [-ttl <duration>] [-secret <secret>]")
		fmt.Fprintln(os.Stderr, "  Secret defaults to the OVERLAY_SECRET environment variable")
		os.Exit(1)
	}

	codec, err := token.NewCodec(*secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid secret: %v\n", err)
		os.Exit(1)
	}

	tok, err := codec.Issue(*name, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tok)
}
