package feature

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTeamName folds a team (or city) label to a canonical comparison
// key: accents stripped, lowercased, punctuation dropped, "FC" tokens
// removed and whitespace collapsed. "Grêmio F.C." and "gremio fc" compare
// equal after normalization.
func NormalizeTeamName(name string) string {
	folded := stripAccents(name)
	folded = strings.ToLower(folded)
	folded = strings.ReplaceAll(folded, ".", "")
	folded = strings.ReplaceAll(folded, "-", " ")

	fields := strings.Fields(folded)
	kept := fields[:0]
	for _, token := range fields {
		if token == "fc" {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
