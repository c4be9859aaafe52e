package idioms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTarget_Shapes(t *testing.T) {
	p := NewPolicy("plain", nil, nil)

	tests := []struct {
		name   string
		idiom  string
		target bool
	}{
		{"three words", "kick the bucket", true},
		{"two short words", "go bananas", false},
		{"single word", "bingo", false},
		{"exactly fourteen runes", "abcdefghijklmn", true},
		{"thirteen runes", "abcdefghijklm", false},
		{"two long words", "extraordinarily complicated", true},
		{"hyphenated short", "well-known", true},
		{"hyphen only", "-", true},
		{"runes not bytes", "éééééé ééééé", false},
		{"multibyte fourteen runes", "ééééééé éééééé", true},
		{"double space counts as extra word", "go  bananas", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.target, p.IsTarget(tt.idiom))
		})
	}
}

func TestIsTarget_ShortUnhyphenatedIsNeverTarget(t *testing.T) {
	p := NewPolicy("plain", nil, nil)
	for _, idiom := range []string{"ab", "in a", "by and", "so so", "à la", "on cue"} {
		assert.Less(t, p.WordCount(idiom), DefaultMinWordCount, idiom)
		assert.False(t, p.IsTarget(idiom), idiom)
	}
}

func TestIsTarget_HyphenatedIsTargetUnlessExcluded(t *testing.T) {
	p := NewPolicy("plain", NewSet("x-ray"), nil)

	for _, idiom := range []string{"a-ok", "run-of-the-mill", "well-to-do", "so-so"} {
		assert.True(t, p.IsTarget(idiom), idiom)
	}
	assert.False(t, p.IsTarget("x-ray"))
}

func TestIsTarget_ExcludedRegardlessOfShape(t *testing.T) {
	long := "once in a blue moon and then some more"
	p := NewPolicy("plain", NewSet(long, "tit-for-tat"), nil)

	assert.True(t, p.IsAboveMinWordCount(long))
	assert.True(t, p.IsAboveMinLength(long))
	assert.False(t, p.IsTarget(long))
	assert.False(t, p.IsTarget("tit-for-tat"))
}

func TestCorrect(t *testing.T) {
	p := NewPolicy("plain", nil, map[string]string{
		"if needs be": "if need be",
	})

	assert.Equal(t, "if need be", p.Correct("if needs be"))
	assert.Equal(t, "kick the bucket", p.Correct("kick the bucket"))
	// idempotent on unmapped idioms
	once := p.Correct("spill the beans")
	assert.Equal(t, once, p.Correct(once))
}

func TestDenylistPolicy_DefaultCases(t *testing.T) {
	p := DenylistPolicy(DefaultCases())

	assert.Equal(t, PolicyDenylist, p.Name)
	assert.False(t, p.IsTarget("if needs be"))
	assert.True(t, p.IsTarget("if need be"))
}

func TestDenylistPolicy_CorrectionBeforeExclusion(t *testing.T) {
	p := DenylistPolicy(Cases{
		Ignored:     []string{"beat around the bush"},
		Corrections: map[string]string{"beat about the bush": "beat around the bush"},
	})

	assert.True(t, p.IsTarget("beat about the bush"))
	assert.False(t, p.IsTarget(p.Correct("beat about the bush")))
}

func TestExceptionPolicy_NoCorrections(t *testing.T) {
	p := ExceptionPolicy(Cases{
		Corrections: map[string]string{"if needs be": "if need be"},
		Exceptions:  []string{"if needs be"},
	})

	assert.Equal(t, PolicyException, p.Name)
	assert.Equal(t, "if needs be", p.Correct("if needs be"))
	assert.False(t, p.IsTarget("if needs be"))
}

// The exception table used to be a bare string, so membership was a
// substring test and any idiom contained in "if needs be" was dropped.
// Exclusion is now phrase-level; these idioms are deliberately kept.
func TestExceptionPolicy_PhraseLevelExclusion(t *testing.T) {
	p := ExceptionPolicy(DefaultCases())

	assert.True(t, p.IsTarget("f needs be"))
	assert.True(t, p.IsTarget("if needs b"))
	assert.False(t, p.IsExcluded("needs"))
	assert.True(t, p.IsExcluded("if needs be"))
}

func TestPoliciesKeepDistinctTables(t *testing.T) {
	cases := Cases{
		Ignored:    []string{"at the end of the day"},
		Exceptions: []string{"when all is said and done"},
	}
	deny := DenylistPolicy(cases)
	exc := ExceptionPolicy(cases)

	assert.False(t, deny.IsTarget("at the end of the day"))
	assert.True(t, exc.IsTarget("at the end of the day"))
	assert.True(t, deny.IsTarget("when all is said and done"))
	assert.False(t, exc.IsTarget("when all is said and done"))
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("Denylist", DefaultCases())
	assert.NoError(t, err)
	assert.Equal(t, PolicyDenylist, p.Name)

	p, err = PolicyByName(" exception ", DefaultCases())
	assert.NoError(t, err)
	assert.Equal(t, PolicyException, p.Name)

	_, err = PolicyByName("fuzzy", DefaultCases())
	assert.Error(t, err)
}
