// Package address composes the human-readable accident location from the
// split address columns of each export variant.
package address

import (
	"strconv"
	"strings"
)

// Style selects the composition rules of an export variant.
type Style int

const (
	Hackathon Style = iota + 1
	Modern
	Legacy
)

// Parts are the address sub-fields of one road.
type Parts struct {
	Village      string
	Neighborhood string
	Road         string
	Section      string
	Lane         string
	Alley        string
	Number       string
	Distance     string // meters before the reference point
	Side         string
	Other        string
}

var chineseNumerals = []string{"零", "一", "二", "三", "四", "五", "六", "七", "八", "九", "十"}

// Absent reports whether a sub-field counts as not recorded in style.
func (s Style) Absent(v string) bool {
	v = strings.TrimSpace(v)
	switch s {
	case Hackathon:
		if v == "" {
			return true
		}
		n, err := strconv.Atoi(v)
		return err == nil && n == 0
	case Modern, Legacy:
		return v == "" || v == "NA"
	}
	return v == ""
}

func (s Style) distanceAbsent(v string) bool {
	return s.Absent(v) || (s == Modern && strings.TrimSpace(v) == "0")
}

// Compose builds the location string. The intersection is appended after
// a slash only when one of its sub-fields is recorded, so an all-absent
// row yields exactly first+second. Legacy rows are positional and go through
// Join instead.
func Compose(style Style, first, second string, main, cross Parts) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(first))
	b.WriteString(strings.TrimSpace(second))

	switch style {
	case Hackathon:
		b.WriteString(style.road(main))
	case Modern:
		b.WriteString(style.optional(main.Village, ""))
		b.WriteString(style.optional(main.Neighborhood, "鄰"))
		b.WriteString(style.road(main))
		if !style.distanceAbsent(main.Distance) {
			b.WriteString(strings.TrimSpace(main.Distance) + "公尺處")
		}
		b.WriteString(style.optional(main.Side, ""))
		b.WriteString(style.optional(main.Other, ""))
	}

	if inter := style.road(cross); inter != "" {
		b.WriteString("/")
		b.WriteString(style.optional(cross.Village, ""))
		b.WriteString(inter)
	}
	return b.String()
}

// road renders road, section, lane, alley and number.
func (s Style) road(p Parts) string {
	var b strings.Builder
	b.WriteString(s.optional(p.Road, ""))
	b.WriteString(s.section(p.Section))
	b.WriteString(s.optional(p.Lane, "巷"))
	b.WriteString(s.optional(p.Alley, "弄"))
	b.WriteString(s.number(p.Number))
	return b.String()
}

func (s Style) optional(v, suffix string) string {
	if s.Absent(v) {
		return ""
	}
	return strings.TrimSpace(v) + suffix
}

func (s Style) section(v string) string {
	if s.Absent(v) {
		return ""
	}
	v = strings.TrimSpace(v)
	switch s {
	case Hackathon:
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 10 {
			return chineseNumerals[n] + "段"
		}
		if strings.HasSuffix(v, "段") {
			return v
		}
		return v + "段"
	default:
		if isChineseNumeral(v) || isNumber(v) {
			return v + "段"
		}
		return v
	}
}

func (s Style) number(v string) string {
	if s.Absent(v) {
		return ""
	}
	v = strings.TrimSpace(v)
	if s == Modern && !isNumber(v) {
		return v
	}
	return v + "號"
}

// Join concatenates the recorded sections in order.
func Join(absent func(string) bool, sections ...string) string {
	var b strings.Builder
	for _, s := range sections {
		if absent(s) {
			continue
		}
		b.WriteString(strings.TrimSpace(s))
	}
	return b.String()
}

func isNumber(v string) bool {
	_, err := strconv.Atoi(v)
	return err == nil
}

func isChineseNumeral(v string) bool {
	for _, n := range chineseNumerals[1:] {
		if v == n {
			return true
		}
	}
	return false
}

// IsNumber reports whether v is a plain integer.
func IsNumber(v string) bool { return isNumber(strings.TrimSpace(v)) }

// IsSection reports whether v is a numeric or Chinese-numeral section.
func IsSection(v string) bool {
	v = strings.TrimSpace(v)
	return isNumber(v) || isChineseNumeral(v)
}
