// Package shape profiles the columns of export files: which distinct values
// each column holds and where each value first appeared. Profiles are kept
// as YAML so new anomalies can be found by comparing against a baseline.
package shape

import (
	"io"
	"os"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/accident-cli/internal/rowsource"
)

// Appearance locates a value in a file.
type Appearance struct {
	File string `yaml:"file"`
	Line int    `yaml:"line"`
}

// Field is the profile of one column.
type Field struct {
	// FirstFile is the first file whose header carried the column.
	FirstFile string `yaml:"first_file"`
	// Values maps each distinct value to its first appearance.
	Values map[string]Appearance `yaml:"values"`
}

// Shape is the profile of every column seen so far. It is not safe for
// concurrent use.
type Shape struct {
	Fields map[string]*Field `yaml:"fields"`
}

// New returns an empty Shape.
func New() *Shape {
	return &Shape{Fields: make(map[string]*Field)}
}

// Profile streams path and records the values of every column not in
// excluded into into. Values already present keep their first appearance.
func Profile(path string, excluded []string, into *Shape, opts rowsource.Options) error {
	if into.Fields == nil {
		into.Fields = make(map[string]*Field)
	}

	skip := make(map[string]bool, len(excluded))
	for _, col := range excluded {
		skip[col] = true
	}

	opts.OnHeader = func(header []string) error {
		for _, col := range header {
			if skip[col] {
				continue
			}
			if _, ok := into.Fields[col]; !ok {
				into.Fields[col] = &Field{FirstFile: path, Values: make(map[string]Appearance)}
			}
		}
		return nil
	}

	rows := 0
	err := rowsource.New(opts).Stream(path, func(row rowsource.Row) error {
		rows++
		for col, v := range row.Values {
			f, ok := into.Fields[col]
			if !ok {
				continue
			}
			if _, seen := f.Values[v]; !seen {
				f.Values[v] = Appearance{File: path, Line: row.Line}
			}
		}
		return nil
	})
	if err != nil {
		return eris.Wrapf(err, "shape: profile %s", path)
	}

	zap.L().Debug("shape: profiled file",
		zap.String("path", path),
		zap.Int("rows", rows),
		zap.Int("fields", len(into.Fields)),
	)
	return nil
}

// Values returns the distinct values of col in sorted order.
func (s *Shape) Values(col string) []string {
	f, ok := s.Fields[col]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(f.Values))
	for v := range f.Values {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// NewValues returns, per column, the values of s that baseline lacks.
// Columns baseline has never seen are reported with all their values.
func (s *Shape) NewValues(baseline *Shape) map[string][]string {
	out := make(map[string][]string)
	for col, f := range s.Fields {
		var known map[string]Appearance
		if bf, ok := baseline.Fields[col]; ok {
			known = bf.Values
		}
		for v := range f.Values {
			if _, ok := known[v]; !ok {
				out[col] = append(out[col], v)
			}
		}
		slices.Sort(out[col])
	}
	return out
}

// WriteYAML serializes the shape. Map keys come out sorted.
func (s *Shape) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return eris.Wrap(err, "shape: encode yaml")
	}
	return eris.Wrap(enc.Close(), "shape: close yaml encoder")
}

// Load reads a shape written by WriteYAML.
func Load(path string) (*Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shape: read %s", path)
	}

	s := New()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, eris.Wrapf(err, "shape: parse %s", path)
	}
	if s.Fields == nil {
		s.Fields = make(map[string]*Field)
	}
	return s, nil
}
