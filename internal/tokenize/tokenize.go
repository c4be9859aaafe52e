// Package tokenize splits text into the word tokens the idiom matcher
// works on.
package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text on whitespace and peels leading and trailing
// punctuation off each word into tokens of their own. Word-internal
// hyphens and apostrophes stay, so "well-known" and "don't" are single
// tokens. Text is NFC-normalized first.
func Tokenize(text string) []string {
	text = norm.NFC.String(text)

	var tokens []string
	for _, word := range strings.Fields(text) {
		tokens = appendWord(tokens, word)
	}
	return tokens
}

func appendWord(tokens []string, word string) []string {
	runes := []rune(word)

	start := 0
	for start < len(runes) && isEdgePunct(runes[start]) {
		tokens = append(tokens, string(runes[start]))
		start++
	}

	end := len(runes)
	for end > start && isEdgePunct(runes[end-1]) {
		end--
	}

	if start < end {
		tokens = append(tokens, string(runes[start:end]))
	}
	for _, r := range runes[end:] {
		tokens = append(tokens, string(r))
	}
	return tokens
}

func isEdgePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Join rebuilds text from tokens, dropping the space before closing
// punctuation.
func Join(tokens []string) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && !isClosing(tok) && !isOpening(tokens[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}

func isClosing(tok string) bool {
	switch tok {
	case ".", ",", "!", "?", ";", ":", ")", "]", "}", "…":
		return true
	}
	return false
}

func isOpening(tok string) bool {
	switch tok {
	case "(", "[", "{":
		return true
	}
	return false
}
