package matcher

import (
	"errors"
	"os"

	"github.com/MimeLyc/idiom-merger/internal/errs"
)

// Loader reads a previously saved matcher blob.
type Loader struct {
	Path string
}

func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Load reads the whole blob in one call and decodes it. The returned
// matcher is not modified afterwards.
func (l *Loader) Load() (*PhraseMatcher, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		kind := errs.FileRead
		if errors.Is(err, os.ErrNotExist) {
			kind = errs.FileNotFound
		}
		return nil, errs.Wrap(err, kind, "read matcher blob").WithContext("path", l.Path)
	}

	m, err := Decode(data)
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			e.WithContext("path", l.Path)
		}
		return nil, err
	}
	return m, nil
}
