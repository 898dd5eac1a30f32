package textfeat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes drops single-character tokens such as stray letters and digits
const minTokenRunes = 2

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// tokenize lower-cases the text and splits it into word tokens
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ngrams joins every run of minN..maxN consecutive tokens with a single space
func ngrams(tokens []string, minN, maxN int) []string {
	if len(tokens) == 0 {
		return nil
	}

	out := make([]string, 0, len(tokens)*(maxN-minN+1))
	for n := minN; n <= maxN; n++ {
		if n == 1 {
			out = append(out, tokens...)
			continue
		}
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
