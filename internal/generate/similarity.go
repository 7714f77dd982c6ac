package generate

import (
	"strings"
	"unicode"
)

// minCandidateLen is the shortest normalized candidate worth showing.
const minCandidateLen = 6

// normalizeLine lowercases, strips punctuation and collapses
// whitespace. Used only for scoring; displayed lines keep their
// original form.
func normalizeLine(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// jaccard scores lexical overlap of two lines as intersection over
// union of their normalized word sets. 0 when either side is empty.
func jaccard(a, b string) float64 {
	wordsA := strings.Fields(normalizeLine(a))
	wordsB := strings.Fields(normalizeLine(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(wordsA))
	for _, w := range wordsA {
		setA[w] = struct{}{}
	}
	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// PickDissimilar returns the candidate least similar to the recent
// lines, where a candidate's similarity is its maximum jaccard score
// against any recent entry. Candidates shorter than minCandidateLen
// normalized characters are dropped; ties go to the earliest
// candidate. Returns "" when nothing usable remains — the caller must
// fall back.
func PickDissimilar(candidates, recent []string) string {
	var pool []string
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(normalizeLine(c)) >= minCandidateLen {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		return ""
	}

	best := pool[0]
	bestScore := 2.0
	for _, c := range pool {
		score := 0.0
		for _, r := range recent {
			if s := jaccard(c, r); s > score {
				score = s
			}
		}
		if score < bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}
