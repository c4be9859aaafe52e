// Package matcher finds idiom spans in token sequences and persists
// compiled matchers as binary blobs.
package matcher

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Matcher is the capability the merge step needs: a registered pattern
// set that can be scanned against a token sequence.
type Matcher interface {
	// Len is the number of registered patterns.
	Len() int
	// Match returns every span in tokens that equals a registered
	// pattern, ordered by start then end.
	Match(tokens []string) []Span
}

// Pattern is a token sequence registered under Key.
type Pattern struct {
	Key    string   `cbor:"1,keyasint"`
	Tokens []string `cbor:"2,keyasint"`
}

type node struct {
	next map[string]int
	out  []int // pattern indexes ending here
}

// PhraseMatcher is a token trie. It is safe for concurrent Match calls
// once no more patterns are added.
type PhraseMatcher struct {
	foldCase bool
	nodes    []node
	patterns []Pattern
	seen     map[string]int
}

var _ Matcher = (*PhraseMatcher)(nil)

// NewPhraseMatcher creates an empty matcher. With foldCase, tokens are
// compared after Unicode case folding.
func NewPhraseMatcher(foldCase bool) *PhraseMatcher {
	return &PhraseMatcher{
		foldCase: foldCase,
		nodes:    []node{{next: make(map[string]int)}},
		seen:     make(map[string]int),
	}
}

func (m *PhraseMatcher) FoldCase() bool {
	return m.foldCase
}

func (m *PhraseMatcher) Len() int {
	return len(m.patterns)
}

// Patterns returns a copy of the registered patterns in insertion order.
func (m *PhraseMatcher) Patterns() []Pattern {
	out := make([]Pattern, len(m.patterns))
	for i, p := range m.patterns {
		out[i] = Pattern{Key: p.Key, Tokens: append([]string(nil), p.Tokens...)}
	}
	return out
}

// Add registers tokens under key. It reports false when tokens is empty
// or the same key/tokens pair is already registered.
func (m *PhraseMatcher) Add(key string, tokens ...string) bool {
	if len(tokens) == 0 {
		return false
	}

	normalized := make([]string, len(tokens))
	for i, tok := range tokens {
		normalized[i] = m.normalize(tok)
	}

	id := key + "\x00" + strings.Join(normalized, "\x1f")
	if _, exists := m.seen[id]; exists {
		return false
	}

	idx := len(m.patterns)
	m.patterns = append(m.patterns, Pattern{Key: key, Tokens: append([]string(nil), tokens...)})
	m.seen[id] = idx

	state := 0
	for _, tok := range normalized {
		nxt, ok := m.nodes[state].next[tok]
		if !ok {
			nxt = len(m.nodes)
			m.nodes = append(m.nodes, node{next: make(map[string]int)})
			m.nodes[state].next[tok] = nxt
		}
		state = nxt
	}
	m.nodes[state].out = append(m.nodes[state].out, idx)
	return true
}

func (m *PhraseMatcher) Match(tokens []string) []Span {
	normalized := make([]string, len(tokens))
	for i, tok := range tokens {
		normalized[i] = m.normalize(tok)
	}

	var spans []Span
	for start := range normalized {
		state := 0
		for end := start; end < len(normalized); end++ {
			nxt, ok := m.nodes[state].next[normalized[end]]
			if !ok {
				break
			}
			state = nxt
			for _, idx := range m.nodes[state].out {
				spans = append(spans, Span{Key: m.patterns[idx].Key, Start: start, End: end + 1})
			}
		}
	}
	return spans
}

func (m *PhraseMatcher) normalize(tok string) string {
	tok = norm.NFC.String(tok)
	if m.foldCase {
		// a Caser is stateful, so each call gets its own
		tok = cases.Fold().String(tok)
	}
	return tok
}
