// Package rowsource streams the records of a delimited export file as
// header-keyed rows, decoding legacy charsets on the fly.
package rowsource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrReentrantParse is returned when a Source is asked to stream a file
	// while it is still streaming another one.
	ErrReentrantParse = eris.New("source is already streaming a file")

	// ErrMissingHeader is returned for a file with no header record.
	ErrMissingHeader = eris.New("missing header record")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReentrantError names the file whose stream was rejected.
type ReentrantError struct {
	Path string
}

func (e *ReentrantError) Error() string {
	return fmt.Sprintf("rowsource: %s: %v", e.Path, ErrReentrantParse)
}

func (e *ReentrantError) Unwrap() error { return ErrReentrantParse }

// Options configures a Source.
type Options struct {
	// Encoding is a WHATWG label such as "big5". Empty means UTF-8.
	Encoding   string
	Comma      rune // default ','
	LazyQuotes bool

	// OnHeader sees the header record before any row is delivered.
	OnHeader func(header []string) error
}

// Row is one record keyed by header name. Columns the record does not
// reach are missing from Values.
type Row struct {
	Values map[string]string
	Line   int
}

// Get returns the raw value of col, or "" when the record lacks it.
func (r Row) Get(col string) string { return r.Values[col] }

// Has reports whether the record carries col.
func (r Row) Has(col string) bool {
	_, ok := r.Values[col]
	return ok
}

// Empty reports whether every field of the record was blank.
func (r Row) Empty() bool { return len(r.Values) == 0 }

// Source streams one file at a time.
type Source struct {
	opts Options
	busy atomic.Bool
	line atomic.Int64
}

// New creates a Source.
func New(opts Options) *Source {
	return &Source{opts: opts}
}

// Line returns the 1-based line of the record currently being handled.
func (s *Source) Line() int { return int(s.line.Load()) }

// Stream reads path record by record and calls fn for each row after the
// header, in file order. Reading stops at the first error returned by fn.
func (s *Source) Stream(path string, fn func(Row) error) error {
	if !s.busy.CompareAndSwap(false, true) {
		return &ReentrantError{Path: path}
	}
	defer s.busy.Store(false)
	s.line.Store(0)

	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "rowsource: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r, err := decode(s.opts.Encoding, f)
	if err != nil {
		return err
	}

	reader := csv.NewReader(r)
	if s.opts.Comma != 0 {
		reader.Comma = s.opts.Comma
	}
	reader.LazyQuotes = s.opts.LazyQuotes
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return eris.Wrapf(ErrMissingHeader, "rowsource: %s", path)
	}
	if err != nil {
		return eris.Wrapf(err, "rowsource: read header of %s", path)
	}
	s.line.Store(1)
	header = cleanHeader(header)

	if s.opts.OnHeader != nil {
		if err := s.opts.OnHeader(header); err != nil {
			return err
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return eris.Wrapf(err, "rowsource: read %s", path)
		}
		line, _ := reader.FieldPos(0)
		s.line.Store(int64(line))

		if err := fn(toRow(header, record, line)); err != nil {
			return err
		}
	}
}

func decode(label string, r io.Reader) (io.Reader, error) {
	if label != "" {
		enc, err := htmlindex.Get(label)
		if err != nil {
			return nil, eris.Wrapf(err, "rowsource: unsupported encoding %q", label)
		}
		if name, _ := htmlindex.Name(enc); name != "utf-8" {
			r = enc.NewDecoder().Reader(r)
		}
	}

	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br, nil
}

func cleanHeader(record []string) []string {
	header := make([]string, len(record))
	for i, name := range record {
		header[i] = strings.TrimSpace(name)
	}
	return header
}

// toRow keys record by header. The first occurrence of a duplicated column
// name wins. A record with only blank fields yields an empty row.
func toRow(header, record []string, line int) Row {
	values := make(map[string]string, len(header))
	blank := true
	for i, v := range record {
		if i >= len(header) {
			break
		}
		if _, dup := values[header[i]]; dup {
			continue
		}
		values[header[i]] = v
		if strings.TrimSpace(v) != "" {
			blank = false
		}
	}
	if blank {
		return Row{Values: map[string]string{}, Line: line}
	}
	return Row{Values: values, Line: line}
}
