package idioms

import (
	"bufio"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/MimeLyc/idiom-merger/internal/errs"
)

const maxRowBytes = 1024 * 1024

// Loader reads idioms from a tab-separated dictionary: one header row,
// then one idiom per row in Column.
type Loader struct {
	Path   string
	Policy Policy
	Column int
}

func NewLoader(path string, policy Policy) *Loader {
	return &Loader{Path: path, Policy: policy}
}

// Stats summarizes what a policy does to a dictionary.
type Stats struct {
	Total     int
	Corrected int
	Excluded  int
	Targets   int
}

func (s Stats) String() string {
	return fmt.Sprintf("total=%d corrected=%d excluded=%d targets=%d",
		s.Total, s.Corrected, s.Excluded, s.Targets)
}

// Load yields the corrected idioms in file order. With targetOnly, only
// idioms passing Policy.IsTarget are yielded.
//
// The sequence is single-pass and lazy: the file is opened when
// iteration starts and closed when it ends, early break included. On
// error it yields ("", err) once and stops.
func (l *Loader) Load(targetOnly bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for idiom, err := range l.Idioms() {
			if err != nil {
				yield("", err)
				return
			}

			idiom = l.Policy.Correct(idiom)
			if targetOnly && !l.Policy.IsTarget(idiom) {
				continue
			}
			if !yield(idiom, nil) {
				return
			}
		}
	}
}

// Idioms yields the raw idiom column, header skipped, no policy applied.
func (l *Loader) Idioms() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		fh, err := os.Open(l.Path)
		if err != nil {
			kind := errs.FileRead
			if errors.Is(err, os.ErrNotExist) {
				kind = errs.FileNotFound
			}
			yield("", errs.Wrap(err, kind, "open dictionary").WithContext("path", l.Path))
			return
		}
		defer fh.Close()

		scanner := bufio.NewScanner(fh)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRowBytes)

		// header
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				yield("", l.readError(err, 1))
				return
			}
			yield("", errs.New(errs.MissingHeader, "dictionary is empty").WithContext("path", l.Path))
			return
		}

		line := 1
		for scanner.Scan() {
			line++
			fields := splitRow(strings.TrimSuffix(scanner.Text(), "\r"))
			if len(fields) <= l.Column {
				yield("", errs.New(errs.MalformedRow, "row is missing the idiom column").
					WithContext("path", l.Path).
					WithContext("line", line).
					WithContext("fields", len(fields)).
					WithContext("column", l.Column))
				return
			}

			if !yield(fields[l.Column], nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", l.readError(err, line+1))
		}
	}
}

func (l *Loader) readError(err error, line int) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return errs.Wrap(err, errs.Parse, "dictionary row too long").
			WithContext("path", l.Path).
			WithContext("line", line)
	}
	return errs.Wrap(err, errs.FileRead, "read dictionary").WithContext("path", l.Path)
}

// Summarize walks the whole dictionary once and counts what the policy
// corrects, excludes and keeps.
func (l *Loader) Summarize() (Stats, error) {
	var stats Stats
	for raw, err := range l.Idioms() {
		if err != nil {
			return Stats{}, err
		}
		stats.Total++

		idiom := l.Policy.Correct(raw)
		if idiom != raw {
			stats.Corrected++
		}
		switch {
		case l.Policy.IsExcluded(idiom):
			stats.Excluded++
		case l.Policy.IsTarget(idiom):
			stats.Targets++
		}
	}
	return stats, nil
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for idiom, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, idiom)
	}
	return out, nil
}

// Values turns an in-memory list into the sequence shape Load returns.
func Values(idioms []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, idiom := range idioms {
			if !yield(idiom, nil) {
				return
			}
		}
	}
}
