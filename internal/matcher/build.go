package matcher

import (
	"iter"

	"github.com/MimeLyc/idiom-merger/internal/tokenize"
)

// Build registers one pattern per idiom, keyed by the idiom itself. The
// idiom is tokenized the same way as the text it will be matched
// against. It stops at the first error from idioms.
func Build(idioms iter.Seq2[string, error], foldCase bool) (*PhraseMatcher, error) {
	m := NewPhraseMatcher(foldCase)
	for idiom, err := range idioms {
		if err != nil {
			return nil, err
		}
		m.Add(idiom, tokenize.Tokenize(idiom)...)
	}
	return m, nil
}
