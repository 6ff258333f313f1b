package parser

import (
	"time"

	"github.com/sells-group/accident-cli/internal/address"
	"github.com/sells-group/accident-cli/internal/model"
	"github.com/sells-group/accident-cli/internal/rowsource"
)

var hackathonParty = partyColumns{
	order:               "當事人序",
	vehicle:             "車種",
	gender:              "性別",
	age:                 "年齡",
	injurySeverity:      "22受傷程度",
	injuredArea:         "23主要傷處",
	safetyDevice:        "24安全帽",
	smartphone:          "25行動電話",
	vehicleUsage:        "28車輛用途",
	action:              "29當事者行動狀態",
	driverQualification: "30駕駛資格情形",
	license:             "31駕駛執照種類",
	drunk:               "32飲酒情形",
	crashMain:           "33_1主要車損",
	crashOther:          "33_2其他車損",
	cause:               "肇因碼-個別",
	hitAndRun:           "35個人肇逃否",
	job:                 "36職業",
	travelPurpose:       "37旅次目的",
	citizenship:         "國籍",
}

var hackathonCase = caseColumns{
	weather:             "4天候",
	light:               "5光線",
	roadHierarchy:       "6道路類別",
	speedLimit:          "7速限",
	roadGeometry:        "8道路型態",
	position:            "9事故位置",
	roadMaterial:        "10路面狀況1",
	roadSurfaceWet:      "10路面狀況2",
	roadSurfaceDefect:   "10路面狀況3",
	obstacle:            "11道路障礙1",
	sightDistance:       "11道路障礙2",
	trafficSignal:       "12號誌1",
	trafficSignalStatus: "12號誌2",
	directionDivider:    "13車道劃分-分向",
	normalLaneDivider:   "14車道劃分-分道1",
	fastSlowLaneDivider: "14車道劃分-分道2",
	edgeLine:            "14車道劃分-分道3",
	crashType:           "15事故類型及型態",
}

var hackathonTimeLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// hackathonHandler handles the Taipei hackathon export. Parties of one case
// are not guaranteed to be adjacent, so cases are grouped by case number.
type hackathonHandler struct {
	p *Parser
}

func (h *hackathonHandler) handle(row rowsource.Row) error {
	p := h.p
	if p.skip(row, "案號") {
		return nil
	}
	c := p.cells(row)

	party, err := c.party(hackathonParty)
	if err != nil {
		return err
	}

	key, err := c.requiredText("案號")
	if err != nil {
		return err
	}
	if p.opts.Verify {
		if err := h.verifyCaseID(c, key); err != nil {
			return err
		}
	}

	if existing := p.agg.lookup(key); existing != nil {
		p.agg.appendParty(existing, party)
		return nil
	}

	cs, err := h.newCase(c)
	if err != nil {
		return err
	}
	cs.Parties = []model.Party{party}
	p.agg.register(key, cs)
	return nil
}

func (h *hackathonHandler) newCase(c cells) (*model.Case, error) {
	p := h.p
	if p.opts.Verify {
		if err := h.verifyRoads(c); err != nil {
			return nil, err
		}
	}

	processing, err := c.required("處理別")
	if err != nil {
		return nil, err
	}
	date, err := h.date(c)
	if err != nil {
		return nil, err
	}
	d24, err := c.requiredCount("死亡人數")
	if err != nil {
		return nil, err
	}
	injury, err := c.requiredCount("受傷人數")
	if err != nil {
		return nil, err
	}
	// Older years do not have the column at all.
	d30 := c.count("2-30日死亡人數")

	severity, err := c.severity(&d24, d30, &injury, &processing)
	if err != nil {
		return nil, err
	}

	first := c.text("OccurAddr1_1")
	second := c.text("OccurAddr1_2")
	location := address.Compose(p.schema.AddressStyle(), first, second,
		address.Parts{
			Road:    c.text("路段一"),
			Section: c.text("路段一段"),
			Lane:    c.text("巷"),
			Alley:   c.text("弄"),
			Number:  c.text("號"),
		},
		address.Parts{
			Road:    c.text("路段二"),
			Section: c.text("路段二段"),
			Lane:    c.text("巷(岔路)"),
			Alley:   c.text("弄(岔路)"),
			Number:  c.text("號(岔路)"),
		},
	)

	if second == "" {
		if p.opts.Verify && severity != model.SelfSettlement {
			return nil, p.violation("second-admin-empty",
				"OccurAddr1_2 is empty for a %s case", severity)
		}
		second = model.UnknownDistrict
	}

	cs := &model.Case{
		ID:                        newID(),
		Date:                      date,
		Location:                  location,
		FirstAdministrativeLevel:  first,
		SecondAdministrativeLevel: second,
		Severity:                  severity,
		ProcessingCode:            &processing,
		DeathIn24Hours:            &d24,
		DeathIn30Days:             d30,
		Injury:                    &injury,
	}
	c.environment(cs, hackathonCase)
	return cs, nil
}

func (h *hackathonHandler) date(c cells) (time.Time, error) {
	raw, err := c.requiredText("發生時間")
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range hackathonTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, model.TaipeiZone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, h.p.malformed("date", "發生時間 %q is not a timestamp", raw)
}
