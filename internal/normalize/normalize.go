// Package normalize turns raw export cells into typed values. Every schema
// variant has a Policy describing which literals mean "not recorded", and a
// shared exception table lists the known bad values and how to recover them.
package normalize

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/width"
)

// Policy describes how one schema variant marks a value as absent.
type Policy struct {
	AbsentLiterals []string
	// ZeroIsAbsent treats any value whose numeric value is 0 ("0", "00") as absent.
	ZeroIsAbsent  bool
	StripBacktick bool
}

// Policies for the supported schema variants.
var (
	HackathonPolicy = Policy{ZeroIsAbsent: true, StripBacktick: true}
	ModernPolicy    = Policy{AbsentLiterals: []string{"NA"}}
	LegacyPolicy    = Policy{AbsentLiterals: []string{"NA"}}
)

// Clean trims the value, folds full-width characters to their narrow form
// and, when the policy says so, drops a trailing backtick.
func (p Policy) Clean(raw string) string {
	s := strings.TrimSpace(width.Fold.String(raw))
	if p.StripBacktick {
		s = strings.TrimSpace(strings.TrimSuffix(s, "`"))
	}
	return s
}

// Absent reports whether the raw cell means "not recorded". Zero values are
// only absent under ZeroIsAbsent.
func (p Policy) Absent(raw string) bool {
	return p.absent(p.Clean(raw), p.ZeroIsAbsent)
}

func (p Policy) absent(s string, zeroIsAbsent bool) bool {
	if s == "" {
		return true
	}
	for _, lit := range p.AbsentLiterals {
		if s == lit {
			return true
		}
	}
	if zeroIsAbsent {
		if n, err := strconv.Atoi(s); err == nil && n == 0 {
			return true
		}
	}
	return false
}

// Kind classifies a normalized value.
type Kind int

const (
	Absent Kind = iota
	Present
	Invalid
)

// Value is the outcome of normalizing one cell.
type Value struct {
	Kind Kind
	N    int
	Raw  string
}

// Ptr returns the value as *T when present.
func Ptr[T ~int](v Value) *T {
	if v.Kind != Present {
		return nil
	}
	t := T(v.N)
	return &t
}

// Observer is notified of recoveries and skipped values.
type Observer interface {
	ExceptionApplied(column, action string)
	ValueSkipped(column string)
}

// Normalizer coerces the cells of one schema variant. It is not safe for
// concurrent use; each parse owns one.
type Normalizer struct {
	schema  string
	policy  Policy
	table   *Table
	obs     Observer
	log     *zap.Logger
	flagged map[string]struct{}
}

// New creates a Normalizer. table and obs may be nil.
func New(schema string, policy Policy, table *Table, obs Observer) *Normalizer {
	return &Normalizer{
		schema:  schema,
		policy:  policy,
		table:   table,
		obs:     obs,
		log:     zap.L().With(zap.String("schema", schema)),
		flagged: make(map[string]struct{}),
	}
}

// Policy returns the absent policy of the schema.
func (n *Normalizer) Policy() Policy { return n.policy }

// Int normalizes a categorical or numeric cell. The exception table is
// consulted before coercion.
func (n *Normalizer) Int(column, raw string) Value {
	return n.coerce(column, raw, n.policy.ZeroIsAbsent)
}

// Count normalizes a cell where zero is a real value, such as a death count
// or a zero-based code.
func (n *Normalizer) Count(column, raw string) Value {
	return n.coerce(column, raw, false)
}

func (n *Normalizer) coerce(column, raw string, zeroIsAbsent bool) Value {
	s := n.policy.Clean(raw)

	if e, ok := n.table.Lookup(n.schema, column, s); ok {
		n.applied(e)
		switch e.Action {
		case Override:
			return Value{Kind: Present, N: e.Value, Raw: raw}
		case Drop:
			return Value{Kind: Absent, Raw: raw}
		}
	}

	if n.policy.absent(s, zeroIsAbsent) {
		return Value{Kind: Absent, Raw: raw}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Value{Kind: Invalid, Raw: raw}
	}
	return Value{Kind: Present, N: v, Raw: raw}
}

// Text cleans a free-text cell. Only Flag and Drop exceptions apply to it.
func (n *Normalizer) Text(column, raw string) string {
	s := n.policy.Clean(raw)
	if e, ok := n.table.Lookup(n.schema, column, s); ok {
		n.applied(e)
		if e.Action == Drop {
			return ""
		}
	}
	return s
}

// Skipped records an optional cell that could not be coerced.
func (n *Normalizer) Skipped(column string, v Value) {
	n.log.Debug("normalize: skipping non-numeric value",
		zap.String("column", column), zap.String("value", v.Raw))
	if n.obs != nil {
		n.obs.ValueSkipped(column)
	}
}

func (n *Normalizer) applied(e Exception) {
	if n.obs != nil {
		n.obs.ExceptionApplied(e.Column, e.Action.String())
	}
	key := e.Column + "\x00" + e.Raw
	if _, seen := n.flagged[key]; seen {
		return
	}
	n.flagged[key] = struct{}{}
	n.log.Debug("normalize: known anomaly",
		zap.String("column", e.Column),
		zap.String("value", e.Raw),
		zap.Stringer("action", e.Action),
		zap.Bool("unresolved", e.Unresolved),
		zap.String("note", e.Note),
	)
}

// HitAndRun maps the hit-and-run code: 1 is false, 2 is true. Any other
// present value is reported as not ok.
func HitAndRun(v Value) (val *bool, ok bool) {
	switch {
	case v.Kind == Absent:
		return nil, true
	case v.Kind == Present && v.N == 1:
		f := false
		return &f, true
	case v.Kind == Present && v.N == 2:
		t := true
		return &t, true
	default:
		return nil, false
	}
}
