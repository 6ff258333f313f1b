package parser

import (
	"strings"
	"time"

	"github.com/sells-group/accident-cli/internal/address"
	"github.com/sells-group/accident-cli/internal/model"
	"github.com/sells-group/accident-cli/internal/rowsource"
)

var modernParty = partyColumns{
	order:               "當事者順序",
	vehicle:             "車種代碼",
	gender:              "性別代碼",
	age:                 "年齡",
	injurySeverity:      "受傷程度代碼",
	injuredArea:         "主要傷處代碼",
	safetyDevice:        "保護裝備代碼",
	smartphone:          "行動電話代碼",
	vehicleUsage:        "車輛用途代碼",
	action:              "當事者行動狀態代碼",
	driverQualification: "駕駛資格情形代碼",
	license:             "駕駛執照種類代碼",
	drunk:               "飲酒情形代碼",
	crashMain:           "車輛撞擊部位最初代碼",
	crashOther:          "車輛撞擊部位其他代碼",
	cause:               "肇因個別代碼",
	hitAndRun:           "肇事逃逸代碼",
	job:                 "職業代碼",
	travelPurpose:       "旅次目的代碼",
	citizenship:         "國籍代碼",
}

var modernCase = caseColumns{
	weather:             "天候代碼",
	light:               "光線代碼",
	roadHierarchy:       "道路類別代碼",
	speedLimit:          "速限",
	roadGeometry:        "道路型態代碼",
	position:            "事故位置代碼",
	roadMaterial:        "路面鋪裝代碼",
	roadSurfaceWet:      "路面狀態代碼",
	roadSurfaceDefect:   "路面缺陷代碼",
	obstacle:            "障礙物代碼",
	sightDistance:       "視距代碼",
	trafficSignal:       "號誌種類代碼",
	trafficSignalStatus: "號誌動作代碼",
	directionDivider:    "分向設施代碼",
	normalLaneDivider:   "快車道或一般車道間代碼",
	fastSlowLaneDivider: "快慢車道間代碼",
	edgeLine:            "路面邊線代碼",
	crashType:           "事故類型及型態代碼",
}

const (
	modernMainCause = "主要肇因代碼"
	modernCaseID    = "案件編號"
	modernPartyCase = "當事者案件編號"
)

// modernHandler handles the Taoyuan export with split address columns.
// Cases are grouped by case number.
type modernHandler struct {
	p *Parser
}

func (h *modernHandler) handle(row rowsource.Row) error {
	p := h.p
	if p.skip(row, modernCaseID) {
		return nil
	}
	c := p.cells(row)

	party, err := c.party(modernParty)
	if err != nil {
		return err
	}

	key, err := c.requiredText(modernCaseID)
	if err != nil {
		return err
	}
	if p.opts.Verify {
		if err := h.verifyCaseID(c, key); err != nil {
			return err
		}
		if party.Order == 1 && !c.sameCause(modernMainCause, party.Cause) {
			return p.violation("main-cause", "first party cause differs from %s %q",
				modernMainCause, c.text(modernMainCause))
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

func (h *modernHandler) newCase(c cells) (*model.Case, error) {
	p := h.p
	if p.opts.Verify {
		if err := h.verifyAddress(c); err != nil {
			return nil, err
		}
	}

	processing, err := c.required("處理別代碼")
	if err != nil {
		return nil, err
	}
	date, err := h.date(c)
	if err != nil {
		return nil, err
	}
	first, err := c.requiredText("發生縣市名稱")
	if err != nil {
		return nil, err
	}
	second := c.text("發生市區鄉鎮名稱")

	d24 := c.count("死亡人數")
	d30 := c.count("2-30日死亡人數")
	injury := c.count("受傷人數")
	severity, err := c.severity(d24, d30, injury, &processing)
	if err != nil {
		return nil, err
	}

	cs := &model.Case{
		ID:                        newID(),
		Date:                      date,
		Location:                  address.Compose(p.schema.AddressStyle(), first, second, h.mainParts(c), h.crossParts(c)),
		FirstAdministrativeLevel:  first,
		SecondAdministrativeLevel: second,
		Severity:                  severity,
		ProcessingCode:            &processing,
		DeathIn24Hours:            d24,
		DeathIn30Days:             d30,
		Injury:                    injury,
	}
	lng, okLng := c.float("經度")
	lat, okLat := c.float("緯度")
	if okLng && okLat {
		cs.GPS = &model.GPS{Lng: lng, Lat: lat}
	}
	c.environment(cs, modernCase)
	return cs, nil
}

func (h *modernHandler) mainParts(c cells) address.Parts {
	return address.Parts{
		Village:      c.text("發生地址_村里名稱"),
		Neighborhood: c.text("發生地址_鄰"),
		Road:         c.text("發生地址_路街"),
		Section:      c.text("發生地址_段"),
		Lane:         c.text("發生地址_巷"),
		Alley:        c.text("發生地址_弄"),
		Number:       c.text("發生地址_號"),
		Distance:     c.text("發生地址_前幾公尺"),
		Side:         c.text("發生地址_側名稱"),
		Other:        c.text("發生地址_其他"),
	}
}

func (h *modernHandler) crossParts(c cells) address.Parts {
	return address.Parts{
		Village: c.text("發生交叉路口_村里名稱"),
		Road:    c.text("發生交叉路口_路街口"),
		Section: c.text("發生交叉路口_段"),
		Lane:    c.text("發生交叉路口_巷"),
		Alley:   c.text("發生交叉路口_弄"),
	}
}

// date combines the yyyymmdd date with the hhmmss time, which the export
// writes without leading zeros.
func (h *modernHandler) date(c cells) (time.Time, error) {
	day, err := c.requiredText("發生日期")
	if err != nil {
		return time.Time{}, err
	}
	clock := c.text("發生時間")
	if len(clock) > 6 || !address.IsNumber(clock) {
		return time.Time{}, h.p.malformed("date", "發生時間 %q is not hhmmss", clock)
	}
	clock = strings.Repeat("0", 6-len(clock)) + clock
	t, err := time.ParseInLocation("20060102150405", day+clock, model.TaipeiZone)
	if err != nil {
		return time.Time{}, h.p.malformed("date", "發生日期 %q 發生時間 %q: %v", day, clock, err)
	}
	return t, nil
}
