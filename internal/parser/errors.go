package parser

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/accident-cli/internal/rowsource"
)

// Error kinds. A *ParseError unwraps to exactly one of them.
var (
	ErrUnsupportedSchema    = eris.New("unsupported schema")
	ErrMalformedRow         = eris.New("malformed row")
	ErrConsistencyViolation = eris.New("consistency violation")
)

// ParseError locates a fatal problem in an export file.
type ParseError struct {
	Kind   error
	Path   string
	Line   int
	Rule   string
	Detail string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Kind)
	if e.Rule != "" {
		msg += " [" + e.Rule + "]"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Kind }

// kindLabel names the error kind for metrics.
func kindLabel(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedSchema):
		return "unsupported_schema"
	case errors.Is(err, ErrMalformedRow):
		return "malformed_row"
	case errors.Is(err, ErrConsistencyViolation):
		return "consistency_violation"
	case errors.Is(err, rowsource.ErrReentrantParse):
		return "reentrant_parse"
	default:
		return "io"
	}
}
