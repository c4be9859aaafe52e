package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"plain", "kick the bucket", []string{"kick", "the", "bucket"}},
		{"trailing punctuation", "He kicked the bucket.", []string{"He", "kicked", "the", "bucket", "."}},
		{"hyphen kept", "a well-known fact", []string{"a", "well-known", "fact"}},
		{"apostrophe kept", "don't count", []string{"don't", "count"}},
		{"wrapped", `("spill")`, []string{"(", `"`, "spill", `"`, ")"}},
		{"extra spaces", "  go   bananas \t", []string{"go", "bananas"}},
		{"empty", "", nil},
		{"punct only", "...", []string{".", ".", "."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestTokenize_NFC(t *testing.T) {
	// "café" with a combining acute accent
	decomposed := "cafe\u0301 au lait"
	assert.Equal(t, []string{"caf\u00e9", "au", "lait"}, Tokenize(decomposed))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "He kicked the bucket.", Join([]string{"He", "kicked", "the", "bucket", "."}))
	assert.Equal(t, "well, (maybe) not", Join([]string{"well", ",", "(", "maybe", ")", "not"}))
	assert.Equal(t, "", Join(nil))
}
