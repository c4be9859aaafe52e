package idioms

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MimeLyc/idiom-merger/internal/errs"
)

const (
	PolicyDenylist  = "denylist"
	PolicyException = "exception"
)

// Cases are the static tables the two policies draw from.
type Cases struct {
	// Ignored idioms are never targets under the denylist policy.
	Ignored []string `yaml:"ignored"`
	// Corrections rewrite an idiom before the target check.
	Corrections map[string]string `yaml:"corrections"`
	// Exceptions are never targets under the exception policy.
	Exceptions []string `yaml:"exceptions"`
}

// DefaultCases returns the built-in tables. Callers get a fresh copy.
func DefaultCases() Cases {
	return Cases{
		Ignored: []string{
			// duplicate of "if need be"
			"if needs be",
		},
		Corrections: map[string]string{},
		Exceptions: []string{
			"if needs be",
		},
	}
}

// LoadCases reads case tables from a YAML file. Tables missing from the
// file keep their built-in values.
func LoadCases(path string) (Cases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Cases{}, errs.Wrap(err, errs.FileNotFound, "open cases file").WithContext("path", path)
		}
		return Cases{}, errs.Wrap(err, errs.FileRead, "read cases file").WithContext("path", path)
	}

	var parsed Cases
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Cases{}, errs.Wrap(err, errs.Config, "invalid cases file").WithContext("path", path)
	}

	cases := DefaultCases()
	if parsed.Ignored != nil {
		cases.Ignored = parsed.Ignored
	}
	if parsed.Corrections != nil {
		cases.Corrections = parsed.Corrections
	}
	if parsed.Exceptions != nil {
		cases.Exceptions = parsed.Exceptions
	}
	return cases, nil
}

// DenylistPolicy excludes Ignored idioms and applies Corrections first.
func DenylistPolicy(c Cases) Policy {
	return NewPolicy(PolicyDenylist, NewSet(c.Ignored...), maps.Clone(c.Corrections))
}

// ExceptionPolicy excludes Exceptions and never rewrites.
func ExceptionPolicy(c Cases) Policy {
	return NewPolicy(PolicyException, NewSet(c.Exceptions...), nil)
}

func PolicyByName(name string, c Cases) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyDenylist:
		return DenylistPolicy(c), nil
	case PolicyException:
		return ExceptionPolicy(c), nil
	default:
		return Policy{}, errs.New(errs.Config, fmt.Sprintf("unknown idiom policy %q", name))
	}
}
