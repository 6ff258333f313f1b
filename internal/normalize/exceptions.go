package normalize

// Action is how a known bad value is recovered.
type Action int

const (
	// Override replaces the raw value with a fixed one.
	Override Action = iota + 1
	// Drop leaves the field unset.
	Drop
	// Flag keeps the coerced value and logs it as a known anomaly.
	Flag
)

func (a Action) String() string {
	switch a {
	case Override:
		return "override"
	case Drop:
		return "drop"
	case Flag:
		return "flag"
	default:
		return "unknown"
	}
}

// Exception is one entry of the recovery table.
type Exception struct {
	Schema string
	Column string
	Raw    string
	Action Action
	Value  int // used by Override
	Note   string
	// Unresolved marks values whose real meaning was never established.
	Unresolved bool
}

type exceptionKey struct {
	schema, column, raw string
}

// Table indexes exceptions by schema, column and cleaned raw value.
type Table struct {
	entries map[exceptionKey]Exception
}

// NewTable builds a table from entries. Later entries replace earlier ones
// with the same key.
func NewTable(entries []Exception) *Table {
	t := &Table{entries: make(map[exceptionKey]Exception, len(entries))}
	for _, e := range entries {
		t.entries[exceptionKey{e.Schema, e.Column, e.Raw}] = e
	}
	return t
}

// Lookup finds the exception for a cell. A nil table has no entries.
func (t *Table) Lookup(schema, column, raw string) (Exception, bool) {
	if t == nil {
		return Exception{}, false
	}
	e, ok := t.entries[exceptionKey{schema, column, raw}]
	return e, ok
}

// Entries returns every exception in the table.
func (t *Table) Entries() []Exception {
	if t == nil {
		return nil
	}
	out := make([]Exception, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

const hackathon = "hackathon"

// Known is the recovery table for anomalies found by profiling the
// published exports. Values are matched after cleaning.
var Known = NewTable(knownExceptions())

func knownExceptions() []Exception {
	entries := []Exception{
		{Schema: hackathon, Column: "31駕駛執照種類", Raw: "19*", Action: Override, Value: 19,
			Note: "2017 export, asterisk suffix on an otherwise valid code"},
		{Schema: hackathon, Column: "31駕駛執照種類", Raw: "118", Action: Drop, Unresolved: true,
			Note: "2019 export"},
		{Schema: hackathon, Column: "32飲酒情形", Raw: "111", Action: Drop, Unresolved: true,
			Note: "2020 export"},
		{Schema: hackathon, Column: "肇因碼-個別", Raw: "A1", Action: Drop, Unresolved: true,
			Note: "2018 export, severity class in the cause column"},
		{Schema: hackathon, Column: "35個人肇逃否", Raw: "4", Action: Drop, Unresolved: true,
			Note: "2017 export"},
		{Schema: hackathon, Column: "35個人肇逃否", Raw: "12", Action: Drop, Unresolved: true,
			Note: "2016 export"},
		{Schema: hackathon, Column: "4天候", Raw: "-1", Action: Drop, Unresolved: true,
			Note: "2016 export"},
		{Schema: hackathon, Column: "OccurAddr1_1", Raw: "02", Action: Flag, Unresolved: true,
			Note: "seven cases carry a phone area code instead of the city"},
	}

	for _, raw := range []string{"無", "右右", "左", "如", "手把", "捆捆"} {
		entries = append(entries, Exception{
			Schema: hackathon, Column: "33_2其他車損", Raw: raw, Action: Drop, Unresolved: true,
			Note: "free text in a coded column, 2017-2020 exports",
		})
	}
	for _, raw := range []string{
		"100", "300", "401", "440", "500", "501", "502", "504",
		"505", "510", "550", "555", "580", "701", "707", "801",
	} {
		entries = append(entries, Exception{
			Schema: hackathon, Column: "7速限", Raw: raw, Action: Flag, Unresolved: true,
			Note: "implausible speed limit kept as recorded",
		})
	}
	for _, raw := range []string{"52", "133", "212", "281", "312"} {
		entries = append(entries, Exception{
			Schema: hackathon, Column: "當事人序", Raw: raw, Action: Flag, Unresolved: true,
			Note: "implausible party order kept as recorded",
		})
	}
	return entries
}
