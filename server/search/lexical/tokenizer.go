// Package lexical implements fuzzy text matching over record content:
// tokenization, edit-distance similarity, and a phonetic fallback for
// misspellings that edit distance alone scores too low.
package lexical

import (
	"strings"
	"unicode"
)

// minTokenLength filters out runs too short to carry matching signal.
const minTokenLength = 2

// Tokenize lowercases the input and splits it into alphanumeric runs,
// dropping tokens shorter than two runes.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
