// Package release normalizes media titles for matching and parses identity
// hints out of media file names.
package release

import (
	"regexp"
	"strings"
)

// TitleSeparatorPattern matches the free-form run of characters that sits
// between two title words in a file path (dots, underscores, spaces, dashes).
// It never crosses a path separator.
const TitleSeparatorPattern = `[^\\/]+`

// Tokens splits a title into the lowercase words used for file matching.
// Every rune in charsToIgnore becomes a space; words present in
// wordsToIgnore are dropped. Comparison against wordsToIgnore is exact,
// so configured words should be lowercase. Order is preserved.
func Tokens(title, charsToIgnore string, wordsToIgnore []string) []string {
	ignored := make(map[string]bool, len(wordsToIgnore))
	for _, w := range wordsToIgnore {
		ignored[strings.TrimSpace(w)] = true
	}

	filtered := strings.Map(func(r rune) rune {
		if strings.ContainsRune(charsToIgnore, r) {
			return ' '
		}
		return r
	}, title)

	var tokens []string
	for _, f := range strings.Fields(filtered) {
		tok := strings.ToLower(strings.TrimSpace(f))
		if tok == "" || ignored[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// TitlePattern joins tokens with TitleSeparatorPattern. The result is meant
// to be compiled case-insensitively and searched anywhere in a path.
// An empty token list yields an empty pattern, which matches every path.
func TitlePattern(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return strings.Join(quoted, TitleSeparatorPattern)
}

// CompileTitle builds the case-insensitive title-presence regexp for tokens.
func CompileTitle(tokens []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + TitlePattern(tokens))
}
