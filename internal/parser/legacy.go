package parser

import (
	"time"

	"github.com/sells-group/accident-cli/internal/address"
	"github.com/sells-group/accident-cli/internal/model"
	"github.com/sells-group/accident-cli/internal/rowsource"
)

var legacyParty = partyColumns{
	order:               "當事者順序",
	vehicle:             "當事者區分類別",
	gender:              "屬性別",
	age:                 "年齡",
	injurySeverity:      "受傷程度",
	injuredArea:         "主要傷處",
	safetyDevice:        "保護裝備",
	smartphone:          "行動電話",
	vehicleUsage:        "車輛用途",
	action:              "當事者行動狀態",
	driverQualification: "駕駛資格情形",
	license:             "駕駛執照種類",
	drunk:               "飲酒情形",
	crashMain:           "車輛撞擊部位最初",
	crashOther:          "車輛撞擊部位其他",
	cause:               "肇事因素個別",
	hitAndRun:           "肇事逃逸",
	job:                 "職業",
	travelPurpose:       "旅次目的",
	citizenship:         "國籍",
}

var legacyCase = caseColumns{
	weather:             "天候",
	light:               "光線",
	roadHierarchy:       "道路類別",
	speedLimit:          "速限",
	roadGeometry:        "道路型態",
	position:            "事故位置",
	roadMaterial:        "路面鋪裝",
	roadSurfaceWet:      "路面狀態",
	roadSurfaceDefect:   "路面缺陷",
	obstacle:            "障礙物",
	sightDistance:       "視距",
	trafficSignal:       "號誌種類",
	trafficSignalStatus: "號誌動作",
	directionDivider:    "分向設施",
	normalLaneDivider:   "快車道或一般車道間",
	fastSlowLaneDivider: "快慢車道間",
	edgeLine:            "路面邊線",
	crashType:           "事故類型及型態",
}

// legacyLocation lists the positional location columns in display order.
var legacyLocation = []string{
	"縣市", "區", "村里", "鄰", "街道", "段", "巷", "弄", "號", "公尺處",
	"街道1", "段1", "側", "附近", "道路", "公里", "公尺處1", "向", "車道",
	"平交道", "公里1", "公尺處2", "附近1",
}

const (
	legacyMainCause = "主要肇因"
	// The 2014-2016 files repeat the header at the start of each section.
	legacyHeaderMarker = "年月"
)

// legacyHandler handles the Taoyuan export before 2016. The rows carry no
// case number: a case starts at the party with order 1 and every following
// party must share its timestamp and location.
type legacyHandler struct {
	p *Parser
}

func (h *legacyHandler) handle(row rowsource.Row) error {
	p := h.p
	if p.skip(row, legacyHeaderMarker) {
		return nil
	}
	c := p.cells(row)

	party, err := c.party(legacyParty)
	if err != nil {
		return err
	}
	date, err := h.date(c)
	if err != nil {
		return err
	}
	location := h.location(c)

	if party.Order != 1 {
		prev := p.agg.prev
		if prev == nil || !prev.Date.Equal(date) || prev.Location != location {
			return p.malformed("case-starts-at-order-1",
				"party %d at %s %q does not continue the previous case",
				party.Order, date.Format(time.DateTime), location)
		}
		p.agg.appendParty(prev, party)
		return nil
	}

	if p.opts.Verify && !c.sameCause(legacyMainCause, party.Cause) {
		return p.violation("main-cause", "first party cause differs from %s %q",
			legacyMainCause, c.text(legacyMainCause))
	}

	d24, err := c.requiredCount("死")
	if err != nil {
		return err
	}
	injury, err := c.requiredCount("受傷")
	if err != nil {
		return err
	}
	// Only some years carry the column.
	d30 := c.count("事故後2至30日死亡")

	severity, err := c.severity(&d24, d30, &injury, nil)
	if err != nil {
		return err
	}

	cs := &model.Case{
		ID:                        newID(),
		Date:                      date,
		Location:                  location,
		FirstAdministrativeLevel:  c.text("縣市"),
		SecondAdministrativeLevel: c.text("區"),
		Severity:                  severity,
		DeathIn24Hours:            &d24,
		DeathIn30Days:             d30,
		Injury:                    &injury,
		Parties:                   []model.Party{party},
	}
	c.environment(cs, legacyCase)
	p.agg.register("", cs)
	return nil
}

func (h *legacyHandler) location(c cells) string {
	sections := make([]string, len(legacyLocation))
	for i, col := range legacyLocation {
		sections[i] = c.text(col)
	}
	return address.Join(h.p.schema.AddressStyle().Absent, sections...)
}

// date builds the timestamp from the split year, month, day, hour and
// minute columns. Out of range parts are rejected rather than normalized.
func (h *legacyHandler) date(c cells) (time.Time, error) {
	parts := []struct {
		col      string
		min, max int
	}{
		{"西元年", 1, 9999},
		{"月", 1, 12},
		{"日", 1, 31},
		{"時", 0, 23},
		{"分", 0, 59},
	}
	var v [5]int
	for i, part := range parts {
		n, err := c.requiredCount(part.col)
		if err != nil {
			return time.Time{}, err
		}
		if n < part.min || n > part.max {
			return time.Time{}, h.p.malformed("date", "%s %d is out of range", part.col, n)
		}
		v[i] = n
	}
	t := time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], 0, 0, model.TaipeiZone)
	if t.Day() != v[2] {
		return time.Time{}, h.p.malformed("date", "%04d-%02d-%02d is not a calendar day", v[0], v[1], v[2])
	}
	return t, nil
}
