package idioms

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultSeparator    = " "
	DefaultMinWordCount = 3
	DefaultMinLength    = 14
	DefaultHyphen       = "-"
)

// Set is a set of exact idiom phrases.
type Set map[string]struct{}

func NewSet(phrases ...string) Set {
	s := make(Set, len(phrases))
	for _, p := range phrases {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Contains(phrase string) bool {
	_, ok := s[phrase]
	return ok
}

// Policy decides which idioms make it into the target vocabulary.
// An idiom is a target when it is not excluded and it is long enough
// by word count or by length, or it is hyphenated.
type Policy struct {
	Name string

	Separator    string
	MinWordCount int
	// MinLength is measured in runes.
	MinLength int
	Hyphen    string

	Exclusions  Set
	Corrections map[string]string
}

func (p Policy) Correct(idiom string) string {
	if corrected, ok := p.Corrections[idiom]; ok {
		return corrected
	}
	return idiom
}

func (p Policy) WordCount(idiom string) int {
	return len(strings.Split(idiom, p.Separator))
}

func (p Policy) IsAboveMinWordCount(idiom string) bool {
	return p.WordCount(idiom) >= p.MinWordCount
}

func (p Policy) IsAboveMinLength(idiom string) bool {
	return utf8.RuneCountInString(idiom) >= p.MinLength
}

func (p Policy) IsHyphenated(idiom string) bool {
	return strings.Contains(idiom, p.Hyphen)
}

func (p Policy) IsExcluded(idiom string) bool {
	return p.Exclusions.Contains(idiom)
}

func (p Policy) IsTarget(idiom string) bool {
	return !p.IsExcluded(idiom) &&
		(p.IsAboveMinWordCount(idiom) ||
			p.IsAboveMinLength(idiom) ||
			p.IsHyphenated(idiom))
}

// NewPolicy returns a policy with the default shape thresholds and the
// given tables. A nil table means "none".
func NewPolicy(name string, exclusions Set, corrections map[string]string) Policy {
	if exclusions == nil {
		exclusions = Set{}
	}
	if corrections == nil {
		corrections = map[string]string{}
	}
	return Policy{
		Name:         name,
		Separator:    DefaultSeparator,
		MinWordCount: DefaultMinWordCount,
		MinLength:    DefaultMinLength,
		Hyphen:       DefaultHyphen,
		Exclusions:   exclusions,
		Corrections:  corrections,
	}
}
