// Package errs holds the typed load errors shared by the idiom and
// matcher loaders. Every error here is fatal to the caller: nothing in
// this module retries.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MimeLyc/idiom-merger/pkg/log"
)

type Kind int

const (
	FileNotFound Kind = iota
	FileRead
	FileWrite
	MissingHeader
	MalformedRow
	Parse
	Decode
	Encode
	Config
	Validation
	Unknown
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "FileNotFound"
	case FileRead:
		return "FileRead"
	case FileWrite:
		return "FileWrite"
	case MissingHeader:
		return "MissingHeader"
	case MalformedRow:
		return "MalformedRow"
	case Parse:
		return "Parse"
	case Decode:
		return "Decode"
	case Encode:
		return "Encode"
	case Config:
		return "Config"
	case Validation:
		return "Validation"
	default:
		return "Unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Context: make(map[string]any),
	}
}

func Wrap(err error, kind Kind, message string) *Error {
	e := New(kind, message)
	e.Cause = err
	return e
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Kind, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		ctxParts := make([]string, 0, len(keys))
		for _, k := range keys {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, "context: "+strings.Join(ctxParts, ", "))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// IsKind reports whether any error in err's chain is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Advice returns a short operator hint for the error kind.
func Advice(kind Kind) string {
	switch kind {
	case FileNotFound:
		return "check that the path is correct and the file exists"
	case FileRead:
		return "check file permissions and that the file is not truncated"
	case FileWrite:
		return "check that the output directory exists and is writable"
	case MissingHeader:
		return "the dictionary must start with a header row"
	case MalformedRow:
		return "every dictionary row must contain the idiom column"
	case Parse:
		return "the dictionary must be tab-separated UTF-8 text"
	case Decode:
		return "the matcher blob is corrupt or from an incompatible version; rebuild it with `idiomctl build`"
	case Encode:
		return "the matcher could not be serialized"
	case Config:
		return "check environment variables and the cases file"
	case Validation:
		return "check the command arguments"
	default:
		return "see the error detail"
	}
}

// Handle logs err together with advice for its kind. It returns false
// when err is not an *Error.
func Handle(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		log.Error("unexpected error: %v", err)
		return false
	}
	log.Error("%v\n advice: %s", err, Advice(e.Kind))
	return true
}
