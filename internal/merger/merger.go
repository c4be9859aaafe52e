// Package merger rewrites token streams so every matched idiom becomes
// a single token.
package merger

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/MimeLyc/idiom-merger/internal/matcher"
	"github.com/MimeLyc/idiom-merger/internal/tokenize"
)

type Merger struct {
	matcher  matcher.Matcher
	language string
}

type Option func(*Merger)

// WithLanguage skips merging for text detected as another language.
// language.Und disables the check.
func WithLanguage(tag language.Tag) Option {
	return func(m *Merger) {
		if tag == language.Und {
			m.language = ""
			return
		}
		base, _ := tag.Base()
		m.language = base.String()
	}
}

func New(m matcher.Matcher, opts ...Option) *Merger {
	merger := &Merger{matcher: m}
	for _, opt := range opts {
		opt(merger)
	}
	return merger
}

type Result struct {
	Tokens []string
	// Merged lists the idiom keys merged, in text order.
	Merged []string
	// Skipped is set when the language check rejected the text.
	Skipped bool
}

func (r Result) Text() string {
	return tokenize.Join(r.Tokens)
}

func (m *Merger) Merge(text string) Result {
	tokens := tokenize.Tokenize(text)

	if m.language != "" {
		if detected := whatlanggo.DetectLang(text).Iso6391(); detected != m.language {
			return Result{Tokens: tokens, Skipped: true}
		}
	}

	return m.MergeTokens(tokens)
}

func (m *Merger) MergeTokens(tokens []string) Result {
	spans := matcher.FilterSpans(m.matcher.Match(tokens))
	merged, keys := MergeSpans(tokens, spans)
	return Result{Tokens: merged, Merged: keys}
}

// MergeSpans joins the tokens of each span with a space. spans must be
// non-overlapping and ordered by Start, as FilterSpans returns them.
func MergeSpans(tokens []string, spans []matcher.Span) ([]string, []string) {
	if len(spans) == 0 {
		return tokens, nil
	}

	out := make([]string, 0, len(tokens))
	keys := make([]string, 0, len(spans))
	next := 0
	for _, span := range spans {
		out = append(out, tokens[next:span.Start]...)
		out = append(out, strings.Join(tokens[span.Start:span.End], " "))
		keys = append(keys, span.Key)
		next = span.End
	}
	out = append(out, tokens[next:]...)
	return out, keys
}
