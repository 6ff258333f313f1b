package parser

import (
	"github.com/google/uuid"

	"github.com/sells-group/accident-cli/internal/model"
)

// aggregator groups party rows into cases for a single parse.
type aggregator struct {
	cases []*model.Case
	byKey map[string]*model.Case
	prev  *model.Case
}

func (a *aggregator) reset() {
	a.cases = nil
	a.byKey = make(map[string]*model.Case)
	a.prev = nil
}

func (a *aggregator) lookup(key string) *model.Case {
	return a.byKey[key]
}

// register adds a new case. An empty key registers it positionally only.
func (a *aggregator) register(key string, c *model.Case) {
	a.cases = append(a.cases, c)
	if key != "" {
		a.byKey[key] = c
	}
	a.prev = c
}

func (a *aggregator) appendParty(c *model.Case, p model.Party) {
	c.Parties = append(c.Parties, p)
}

// result copies the cases out in first-seen order.
func (a *aggregator) result() []model.Case {
	out := make([]model.Case, len(a.cases))
	for i, c := range a.cases {
		out[i] = *c
	}
	return out
}

func newID() string { return uuid.New().String() }
