package lexical

import "strings"

// phoneticEquivalents folds letters that commonly swap in misspellings into
// one representative, so "meating" and "meeting" or "kitty" and "city"
// produce the same code.
var phoneticEquivalents = map[rune]rune{
	'c': 'k',
	'q': 'k',
	'z': 's',
	'x': 's',
	'j': 'g',
	'w': 'v',
	'y': 'i',
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// PhoneticCode reduces a token to a consonant skeleton: the first rune is
// kept as-is, later vowels are dropped, equivalent consonants are folded,
// and consecutive duplicates collapse. Tokens shorter than the minimum
// length yield an empty code and never match.
func PhoneticCode(token string) string {
	runes := []rune(strings.ToLower(token))
	if len(runes) < minTokenLength {
		return ""
	}

	var sb strings.Builder
	var last rune
	for i, r := range runes {
		if folded, ok := phoneticEquivalents[r]; ok {
			r = folded
		}
		if i > 0 {
			if isVowel(r) {
				continue
			}
			if r == last {
				continue
			}
		}
		sb.WriteRune(r)
		last = r
	}
	return sb.String()
}
