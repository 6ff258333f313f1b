package parser

import (
	"strings"

	"github.com/sells-group/accident-cli/internal/address"
)

// Strict mode checks. They only report; nothing is repaired.

func (h *hackathonHandler) verifyCaseID(c cells, key string) error {
	if dup := c.text("件數"); dup != key {
		return h.p.violation("case-id-mismatch", "案號 %q and 件數 %q differ", key, dup)
	}
	return nil
}

// verifyRoads checks the redundant road columns against the split ones.
func (h *hackathonHandler) verifyRoads(c cells) error {
	if road, first := c.text("路段"), c.text("路段一"); !strings.HasPrefix(road, first) {
		return h.p.violation("road-prefix", "路段 %q does not start with 路段一 %q", road, first)
	}
	road2, second := c.text("路段2"), c.text("路段二")
	if road2 != "段" && !strings.HasPrefix(road2, second) {
		return h.p.violation("road-prefix", "路段2 %q does not start with 路段二 %q", road2, second)
	}
	return nil
}

func (h *modernHandler) verifyCaseID(c cells, key string) error {
	if !h.p.hasColumn(modernPartyCase) || c.absent(modernPartyCase) {
		return nil
	}
	if dup := c.text(modernPartyCase); dup != key {
		return h.p.violation("case-id-mismatch", "%s %q and %s %q differ",
			modernCaseID, key, modernPartyCase, dup)
	}
	return nil
}

const (
	addressGeneral      = "一般地址"
	addressIntersection = "交叉路口"
	addressOther        = "其他"
	addressNone         = "無"
)

// verifyAddress checks the address columns against the declared address type.
func (h *modernHandler) verifyAddress(c cells) error {
	p := h.p
	kind := c.text("地址類型名稱")
	switch kind {
	case addressGeneral, addressIntersection, addressOther, addressNone:
	default:
		return p.violation("address-type", "unknown 地址類型名稱 %q", kind)
	}
	for _, col := range []string{"發生縣市名稱", "發生市區鄉鎮名稱"} {
		if c.absent(col) {
			return p.violation("address-type", "%s is empty", col)
		}
	}

	blank := func(col string) bool {
		if col == "發生地址_前幾公尺" {
			return c.absent(col) || c.text(col) == "0"
		}
		return c.absent(col)
	}
	numeric := func(col string) bool { return blank(col) || address.IsNumber(c.text(col)) }
	section := func(col string) bool { return blank(col) || address.IsSection(c.text(col)) }

	formats := []struct {
		col string
		ok  func(string) bool
	}{
		{"發生地址_鄰", numeric},
		{"發生地址_段", section},
		{"發生地址_巷", numeric},
		{"發生地址_弄", numeric},
		{"發生地址_號", numeric},
		{"發生地址_前幾公尺", numeric},
	}

	switch kind {
	case addressGeneral, addressIntersection:
		if blank("發生地址_路街") {
			return p.violation("address-type", "%s address without 發生地址_路街", kind)
		}
		fallthrough
	case addressOther:
		for _, f := range formats {
			if !f.ok(f.col) {
				return p.violation("address-type", "%s %q has the wrong format", f.col, c.text(f.col))
			}
		}
	case addressNone:
		for _, col := range []string{"發生地址_鄰", "發生地址_路街", "發生地址_段", "發生地址_巷",
			"發生地址_弄", "發生地址_前幾公尺", "發生地址_側名稱"} {
			if !blank(col) {
				return p.violation("address-type", "%s address with %s %q", kind, col, c.text(col))
			}
		}
	}

	switch kind {
	case addressOther:
		if blank("發生地址_其他") {
			return p.violation("address-type", "%s address without 發生地址_其他", kind)
		}
	case addressNone:
		if !blank("發生地址_其他") {
			return p.violation("address-type", "%s address with 發生地址_其他 %q", kind, c.text("發生地址_其他"))
		}
	}

	cross := []string{"發生交叉路口_路街口", "發生交叉路口_段", "發生交叉路口_巷", "發生交叉路口_弄"}
	switch kind {
	case addressIntersection:
		if blank("發生交叉路口_村里名稱") && allBlank(blank, cross) {
			return p.violation("address-type", "%s address without an intersection", kind)
		}
	case addressGeneral, addressNone:
		if !allBlank(blank, cross) {
			return p.violation("address-type", "%s address with an intersection", kind)
		}
	}
	return nil
}

func allBlank(blank func(string) bool, cols []string) bool {
	for _, col := range cols {
		if !blank(col) {
			return false
		}
	}
	return true
}
