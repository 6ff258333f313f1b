// Package parser rebuilds accident cases from one-row-per-party exports.
// The header selects one of the known schemas once; every following row is
// normalized, grouped into its case and, in strict mode, cross-checked.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/accident-cli/internal/metrics"
	"github.com/sells-group/accident-cli/internal/model"
	"github.com/sells-group/accident-cli/internal/normalize"
	"github.com/sells-group/accident-cli/internal/rowsource"
)

// Options configures a Parser.
type Options struct {
	// Verify enables the strict cross-field checks.
	Verify bool
	Source rowsource.Options
	// Exceptions is the recovery table; nil means normalize.Known.
	Exceptions *normalize.Table
	Metrics    *metrics.Recorder
}

// handler processes the rows of one schema.
type handler interface {
	handle(row rowsource.Row) error
}

// Parser parses one file at a time. Independent parsers may run
// concurrently; a busy parser rejects a second Parse.
type Parser struct {
	opts Options
	src  *rowsource.Source
	busy atomic.Bool

	// per-parse state, reset at the start of every Parse
	path    string
	schema  Schema
	header  map[string]bool
	handler handler
	norm    *normalize.Normalizer
	agg     aggregator
	rows    int
	log     *zap.Logger
}

// New creates a Parser.
func New(opts Options) *Parser {
	if opts.Exceptions == nil {
		opts.Exceptions = normalize.Known
	}
	p := &Parser{opts: opts}

	srcOpts := opts.Source
	userHook := srcOpts.OnHeader
	srcOpts.OnHeader = func(header []string) error {
		if userHook != nil {
			if err := userHook(header); err != nil {
				return err
			}
		}
		return p.onHeader(header)
	}
	p.src = rowsource.New(srcOpts)
	return p
}

// Parse reads path and returns its cases in first-seen order. Any error
// aborts the parse and no cases are returned.
func (p *Parser) Parse(ctx context.Context, path string) ([]model.Case, error) {
	if !p.busy.CompareAndSwap(false, true) {
		err := &rowsource.ReentrantError{Path: path}
		p.opts.Metrics.ParseFailed(kindLabel(err))
		return nil, err
	}
	defer p.busy.Store(false)

	p.reset(path)
	defer p.agg.reset()

	err := p.src.Stream(path, func(row rowsource.Row) error {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "parser: cancelled")
		}
		p.rows++
		return p.handler.handle(row)
	})
	if err != nil {
		p.opts.Metrics.ParseFailed(kindLabel(err))
		var pe *ParseError
		if errors.As(err, &pe) {
			return nil, pe
		}
		if errors.Is(err, rowsource.ErrReentrantParse) {
			return nil, err
		}
		return nil, eris.Wrapf(err, "parser: parse %s", path)
	}

	cases := p.agg.result()
	p.opts.Metrics.Rows(string(p.schema), p.rows)
	p.opts.Metrics.Cases(string(p.schema), len(cases))
	p.log.Info("parser: parsed file",
		zap.String("schema", string(p.schema)),
		zap.Int("rows", p.rows),
		zap.Int("cases", len(cases)),
		zap.Bool("verify", p.opts.Verify),
	)
	return cases, nil
}

// Schema returns the schema of the last parsed file.
func (p *Parser) Schema() Schema { return p.schema }

func (p *Parser) reset(path string) {
	p.path = path
	p.schema = ""
	p.header = nil
	p.handler = nil
	p.norm = nil
	p.rows = 0
	p.agg.reset()
	p.log = zap.L().With(zap.String("file", path))
}

func (p *Parser) onHeader(header []string) error {
	schema, err := Detect(header)
	if err != nil {
		return &ParseError{
			Kind:   ErrUnsupportedSchema,
			Path:   p.path,
			Line:   1,
			Detail: "header: " + strings.Join(header, ","),
		}
	}

	p.schema = schema
	p.header = make(map[string]bool, len(header))
	for _, h := range header {
		p.header[h] = true
	}
	p.norm = normalize.New(string(schema), schema.Policy(), p.opts.Exceptions, p.opts.Metrics)

	switch schema {
	case SchemaHackathon:
		p.handler = &hackathonHandler{p: p}
	case SchemaModern:
		p.handler = &modernHandler{p: p}
	case SchemaLegacy:
		p.handler = &legacyHandler{p: p}
	}
	p.log.Debug("parser: detected schema", zap.String("schema", string(schema)))
	return nil
}

func (p *Parser) hasColumn(col string) bool { return p.header[col] }

func (p *Parser) malformed(rule, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:   ErrMalformedRow,
		Path:   p.path,
		Line:   p.src.Line(),
		Rule:   rule,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) violation(rule, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:   ErrConsistencyViolation,
		Path:   p.path,
		Line:   p.src.Line(),
		Rule:   rule,
		Detail: fmt.Sprintf(format, args...),
	}
}

// skip reports whether the row is a structural artifact rather than a party:
// a record with only blank fields or a repeated header.
func (p *Parser) skip(row rowsource.Row, headerCol string) bool {
	if row.Empty() {
		p.log.Debug("parser: skipping empty row", zap.Int("line", row.Line))
		return true
	}
	if strings.TrimSpace(row.Get(headerCol)) == headerCol {
		p.log.Debug("parser: skipping repeated header", zap.Int("line", row.Line))
		return true
	}
	return false
}
