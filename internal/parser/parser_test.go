package parser

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/accident-cli/internal/metrics"
	"github.com/sells-group/accident-cli/internal/model"
	"github.com/sells-group/accident-cli/internal/rowsource"
)

func parse(t *testing.T, verify bool, path string) ([]model.Case, error) {
	t.Helper()
	return New(Options{Verify: verify}).Parse(context.Background(), path)
}

func requireParseError(t *testing.T, err error, kind error, rule string, line int) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, rule, pe.Rule)
	assert.Equal(t, line, pe.Line)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   Schema
		err    bool
	}{
		{"hackathon", []string{"案號", "肇因研判O", "發生時間"}, SchemaHackathon, false},
		{"modern", []string{"案件編號", "發生日期"}, SchemaModern, false},
		{"legacy", []string{"年月", "西元年"}, SchemaLegacy, false},
		{"hackathon wins over modern", []string{"發生日期", "肇因研判O"}, SchemaHackathon, false},
		{"unknown", []string{"a", "b"}, "", true},
		{"empty", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.header)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnsupportedSchema)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_UnsupportedSchema(t *testing.T) {
	f := fixture{header: []string{"foo", "bar"}}
	path := f.write(t, map[string]string{"foo": "1", "bar": "2"})

	cases, err := parse(t, false, path)
	requireParseError(t, err, ErrUnsupportedSchema, "", 1)
	assert.Nil(t, cases)
	assert.Contains(t, err.Error(), path)
}

func TestParse_HackathonGroupsByCaseNumber(t *testing.T) {
	f := hackathonFixture
	path := f.write(t,
		f.row(),
		f.row("案號", "A2", "件數", "A2", "處理別", "3", "受傷人數", "0"),
		f.row("當事人序", "2", "車種", "H01", "肇因碼-個別", ""),
		f.row("當事人序", "3", "車種", ""),
	)

	p := New(Options{})
	cases, err := p.Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, SchemaHackathon, p.Schema())
	require.Len(t, cases, 2)

	first := cases[0]
	require.Len(t, first.Parties, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{first.Parties[0].Order, first.Parties[1].Order, first.Parties[2].Order})
	assert.Equal(t, model.CategoryMotorcycle, first.Parties[0].Vehicle.Category)
	assert.Equal(t, model.CategoryPedestrian, first.Parties[1].Vehicle.Category)
	assert.Equal(t, model.OtherVehicle, first.Parties[2].Vehicle)

	assert.Equal(t, model.InjuryOnly, first.Severity)
	assert.Equal(t, "臺北市大安區復興南路二段", first.Location)
	assert.Equal(t, "臺北市", first.FirstAdministrativeLevel)
	assert.Equal(t, "大安區", first.SecondAdministrativeLevel)
	assert.WithinDuration(t, time.Date(2019, 1, 2, 8, 30, 0, 0, model.TaipeiZone), first.Date, 0)

	party := first.Parties[0]
	require.NotNil(t, party.Gender)
	assert.Equal(t, model.Gender(1), *party.Gender)
	require.NotNil(t, party.Age)
	assert.Equal(t, 35, *party.Age)
	require.NotNil(t, party.Citizenship)
	assert.Equal(t, model.Citizen, *party.Citizenship)
	assert.Nil(t, party.InjurySeverity)
	assert.Nil(t, first.Parties[1].Cause)

	require.NotNil(t, first.Weather)
	assert.Equal(t, model.Weather(8), *first.Weather)
	assert.Nil(t, first.Light)

	second := cases[1]
	assert.Len(t, second.Parties, 1)
	assert.Equal(t, model.OnlyPropertyDamage, second.Severity)
	require.NotNil(t, second.Injury)
	assert.Equal(t, 0, *second.Injury)
}

func TestParse_HackathonMissingLaterDeathColumn(t *testing.T) {
	f := hackathonFixture.without("2-30日死亡人數")
	cases, err := parse(t, false, f.write(t, f.row()))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Nil(t, cases[0].DeathIn30Days)
	assert.Equal(t, model.InjuryOnlyOrDeathBetween2To30Days, cases[0].Severity)
}

func TestParse_LicenseExceptions(t *testing.T) {
	f := hackathonFixture
	path := f.write(t,
		f.row("31駕駛執照種類", "19*"),
		f.row("當事人序", "2", "31駕駛執照種類", "118"),
		f.row("當事人序", "3", "31駕駛執照種類", "7"),
	)

	cases, err := parse(t, false, path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	parties := cases[0].Parties
	require.Len(t, parties, 3)

	require.NotNil(t, parties[0].License)
	assert.Equal(t, model.License(19), *parties[0].License)
	assert.Nil(t, parties[1].License)
	require.NotNil(t, parties[2].License)
	assert.Equal(t, model.License(7), *parties[2].License)
}

func TestParse_HackathonOptionalValues(t *testing.T) {
	f := hackathonFixture
	path := f.write(t, f.row(
		"年齡", "abc",
		"33_1主要車損", "3",
		"33_2其他車損", "右右",
		"35個人肇逃否", "2",
		"7速限", "500",
		"4天候", "-1",
		"國籍", "1",
	))

	cases, err := parse(t, false, path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	cs := cases[0]
	party := cs.Parties[0]

	assert.Nil(t, party.Age)
	assert.Equal(t, []model.CrashArea{3}, party.CrashArea.Codes())
	require.NotNil(t, party.IsHitAndRun)
	assert.True(t, *party.IsHitAndRun)
	require.NotNil(t, party.Citizenship)
	assert.Equal(t, model.NonCitizen, *party.Citizenship)

	require.NotNil(t, cs.SpeedLimit)
	assert.Equal(t, 500, *cs.SpeedLimit)
	assert.Nil(t, cs.Weather)
}

func TestParse_HackathonBlankDistrict(t *testing.T) {
	f := hackathonFixture
	path := f.write(t, f.row("OccurAddr1_2", ""))

	cases, err := parse(t, false, path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, model.UnknownDistrict, cases[0].SecondAdministrativeLevel)
	assert.Equal(t, "臺北市復興南路二段", cases[0].Location)

	_, err = parse(t, true, path)
	requireParseError(t, err, ErrConsistencyViolation, "second-admin-empty", 2)

	settled := f.write(t, f.row("OccurAddr1_2", "", "處理別", "4"))
	cases, err = parse(t, true, settled)
	require.NoError(t, err)
	assert.Equal(t, model.SelfSettlement, cases[0].Severity)
}

func TestParse_HackathonIntersection(t *testing.T) {
	f := hackathonFixture
	path := f.write(t, f.row("路段二", "忠孝東路", "路段二段", "4", "路段2", "忠孝東路4段"))

	cases, err := parse(t, true, path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "臺北市大安區復興南路二段/忠孝東路四段", cases[0].Location)
}

func TestParse_MalformedRows(t *testing.T) {
	// Each failing row starts a new case so its case columns are read.
	hackNext := []string{"案號", "A2", "件數", "A2"}
	modernNext := []string{"案件編號", "T2", "當事者案件編號", "T2"}
	tests := []struct {
		name  string
		f     fixture
		next  []string
		pairs []string
		rule  string
	}{
		{"missing required code", hackathonFixture, hackNext, []string{"處理別", ""}, "required-field"},
		{"non-numeric required code", hackathonFixture, hackNext, []string{"處理別", "X"}, "required-field"},
		{"missing party order", hackathonFixture, hackNext, []string{"當事人序", ""}, "required-field"},
		{"invalid processing code", hackathonFixture, hackNext, []string{"處理別", "9"}, "processing-code"},
		{"unknown vehicle", hackathonFixture, hackNext, []string{"車種", "Z99"}, "vehicle-code"},
		{"bad timestamp", hackathonFixture, hackNext, []string{"發生時間", "2019/01/02"}, "date"},
		{"modern missing city", modernFixture, modernNext, []string{"發生縣市名稱", ""}, "required-field"},
		{"modern bad clock", modernFixture, modernNext, []string{"發生時間", "8:30"}, "date"},
		{"modern bad date", modernFixture, modernNext, []string{"發生日期", "20171305"}, "date"},
		{"legacy missing death count", legacyFixture, nil, []string{"死", ""}, "required-field"},
		{"legacy month out of range", legacyFixture, nil, []string{"月", "13"}, "date"},
		{"legacy day out of range", legacyFixture, nil, []string{"月", "2", "日", "30"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.f.write(t, tt.f.row(), tt.f.row(append(slices.Clone(tt.next), tt.pairs...)...))
			cases, err := parse(t, false, path)
			if err == nil {
				t.Fatalf("expected an error, got %d cases", len(cases))
			}
			requireParseError(t, err, ErrMalformedRow, tt.rule, 3)
			assert.Nil(t, cases)
		})
	}
}

func TestParse_HackathonStrict(t *testing.T) {
	f := hackathonFixture
	tests := []struct {
		name  string
		pairs []string
		rule  string
	}{
		{"case id mismatch", []string{"件數", "A9"}, "case-id-mismatch"},
		{"road prefix", []string{"路段", "忠孝東路"}, "road-prefix"},
		{"intersection prefix", []string{"路段二", "忠孝東路", "路段2", "敦化南路"}, "road-prefix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := f.write(t, f.row(tt.pairs...))

			_, err := parse(t, true, path)
			requireParseError(t, err, ErrConsistencyViolation, tt.rule, 2)

			cases, err := parse(t, false, path)
			require.NoError(t, err)
			assert.Len(t, cases, 1)
		})
	}
}

func TestParse_ModernSeverity(t *testing.T) {
	f := modernFixture
	tests := []struct {
		name  string
		pairs []string
		want  model.Severity
	}{
		{"code 2 without later death", []string{"2-30日死亡人數", "0"}, model.InjuryOnly},
		{"code 2 with later death", []string{"2-30日死亡人數", "1"}, model.DeathBetween2To30Days},
		{"code 2 unknown later death", []string{"2-30日死亡人數", "NA"}, model.InjuryOnlyOrDeathBetween2To30Days},
		{"code 1", []string{"處理別代碼", "1", "死亡人數", "1"}, model.DeathIn24Hours},
		{"code 3", []string{"處理別代碼", "3"}, model.OnlyPropertyDamage},
		{"code 4", []string{"處理別代碼", "4"}, model.SelfSettlement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases, err := parse(t, false, f.write(t, f.row(tt.pairs...)))
			require.NoError(t, err)
			require.Len(t, cases, 1)
			assert.Equal(t, tt.want, cases[0].Severity)

			got, err := cases[0].RederiveSeverity()
			require.NoError(t, err)
			assert.Equal(t, cases[0].Severity, got)
		})
	}
}

func TestParse_Modern(t *testing.T) {
	f := modernFixture
	path := f.write(t,
		f.row(),
		f.row("當事者順序", "2", "車種代碼", "C03", "肇因個別代碼", "NA", "國籍代碼", "0"),
		f.row("案件編號", "T2", "當事者案件編號", "T2", "發生時間", "0"),
	)

	cases, err := parse(t, true, path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	cs := cases[0]
	assert.Equal(t, "桃園市中壢區中正路一段100號", cs.Location)
	assert.WithinDuration(t, time.Date(2017, 3, 5, 8, 30, 0, 0, model.TaipeiZone), cs.Date, 0)
	require.NotNil(t, cs.GPS)
	assert.InDelta(t, 121.2, cs.GPS.Lng, 1e-9)
	assert.InDelta(t, 24.9, cs.GPS.Lat, 1e-9)
	require.NotNil(t, cs.ProcessingCode)
	assert.Equal(t, 2, *cs.ProcessingCode)
	require.Len(t, cs.Parties, 2)
	assert.Nil(t, cs.Parties[1].Cause)
	require.NotNil(t, cs.Parties[1].Citizenship)
	assert.Equal(t, model.Citizen, *cs.Parties[1].Citizenship)

	assert.WithinDuration(t, time.Date(2017, 3, 5, 0, 0, 0, 0, model.TaipeiZone), cases[1].Date, 0)
}

func TestParse_ModernAddress(t *testing.T) {
	f := modernFixture
	tests := []struct {
		name  string
		pairs []string
		want  string
	}{
		{"all absent", []string{
			"地址類型名稱", "無", "發生地址_路街", "", "發生地址_段", "", "發生地址_號", "",
		}, "桃園市中壢區"},
		{"NA everywhere", []string{
			"地址類型名稱", "無", "發生地址_路街", "NA", "發生地址_段", "NA", "發生地址_號", "NA",
			"發生地址_村里名稱", "NA", "發生地址_前幾公尺", "NA",
		}, "桃園市中壢區"},
		{"distance and side", []string{
			"發生地址_前幾公尺", "30", "發生地址_側名稱", "東側",
		}, "桃園市中壢區中正路一段100號30公尺處東側"},
		{"village and neighborhood", []string{
			"發生地址_村里名稱", "中央里", "發生地址_鄰", "5", "發生地址_巷", "3", "發生地址_弄", "2",
		}, "桃園市中壢區中央里5鄰中正路一段3巷2弄100號"},
		{"intersection", []string{
			"地址類型名稱", "交叉路口", "發生地址_號", "",
			"發生交叉路口_村里名稱", "中央里", "發生交叉路口_路街口", "延平路",
		}, "桃園市中壢區中正路一段/中央里延平路"},
		{"other text", []string{
			"地址類型名稱", "其他", "發生地址_路街", "", "發生地址_段", "", "發生地址_號", "",
			"發生地址_其他", "國道一號北向",
		}, "桃園市中壢區國道一號北向"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases, err := parse(t, true, f.write(t, f.row(tt.pairs...)))
			require.NoError(t, err)
			require.Len(t, cases, 1)
			assert.Equal(t, tt.want, cases[0].Location)
		})
	}
}

func TestParse_ModernStrict(t *testing.T) {
	f := modernFixture
	tests := []struct {
		name  string
		pairs []string
		rule  string
	}{
		{"none with road", []string{"地址類型名稱", "無", "發生地址_段", "", "發生地址_號", ""}, "address-type"},
		{"unknown address type", []string{"地址類型名稱", "某處"}, "address-type"},
		{"blank district", []string{"發生市區鄉鎮名稱", ""}, "address-type"},
		{"general without road", []string{"發生地址_路街", ""}, "address-type"},
		{"bad lane format", []string{"發生地址_巷", "三"}, "address-type"},
		{"other without text", []string{"地址類型名稱", "其他"}, "address-type"},
		{"intersection without cross road", []string{"地址類型名稱", "交叉路口"}, "address-type"},
		{"general with cross road", []string{"發生交叉路口_路街口", "延平路"}, "address-type"},
		{"case id mismatch", []string{"當事者案件編號", "T9"}, "case-id-mismatch"},
		{"main cause", []string{"主要肇因代碼", "7"}, "main-cause"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := f.write(t, f.row(tt.pairs...))

			_, err := parse(t, true, path)
			requireParseError(t, err, ErrConsistencyViolation, tt.rule, 2)

			cases, err := parse(t, false, path)
			require.NoError(t, err)
			assert.Len(t, cases, 1)
		})
	}
}

func TestParse_ModernCaseIDOnlyCheckedWhenPresent(t *testing.T) {
	f := modernFixture.without("當事者案件編號")
	cases, err := parse(t, true, f.write(t, f.row()))
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestParse_LegacyTwoRows(t *testing.T) {
	f := legacyFixture
	path := f.write(t,
		f.row(),
		f.row("當事者順序", "2", "當事者區分類別", "H01", "肇事因素個別", ""),
	)

	cases, err := parse(t, true, path)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	cs := cases[0]
	require.Len(t, cs.Parties, 2)
	assert.Equal(t, 1, cs.Parties[0].Order)
	assert.Equal(t, 2, cs.Parties[1].Order)
	assert.Equal(t, "桃園市桃園區中山路", cs.Location)
	assert.WithinDuration(t, time.Date(2015, 3, 4, 17, 5, 0, 0, model.TaipeiZone), cs.Date, 0)
	assert.Nil(t, cs.ProcessingCode)
	assert.Equal(t, model.InjuryOnlyOrDeathBetween2To30Days, cs.Severity)
}

func TestParse_LegacySeverity(t *testing.T) {
	f := legacyFixture
	tests := []struct {
		name  string
		pairs []string
		want  model.Severity
	}{
		{"death in 24 hours", []string{"死", "1"}, model.DeathIn24Hours},
		{"later death", []string{"事故後2至30日死亡", "1"}, model.DeathBetween2To30Days},
		{"injury only", []string{"事故後2至30日死亡", "0"}, model.InjuryOnly},
		{"property damage", []string{"受傷", "0"}, model.OnlyPropertyDamage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases, err := parse(t, false, f.write(t, f.row(tt.pairs...)))
			require.NoError(t, err)
			require.Len(t, cases, 1)
			assert.Equal(t, tt.want, cases[0].Severity)
		})
	}
}

func TestParse_LegacyCaseBoundary(t *testing.T) {
	f := legacyFixture
	tests := []struct {
		name string
		rows []map[string]string
		line int
	}{
		{"timestamp changes mid case", []map[string]string{
			f.row(),
			f.row("當事者順序", "2", "分", "6"),
		}, 3},
		{"location changes mid case", []map[string]string{
			f.row(),
			f.row("當事者順序", "2", "街道", "中正路"),
		}, 3},
		{"file starts mid case", []map[string]string{
			f.row("當事者順序", "2"),
		}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, false, f.write(t, tt.rows...))
			requireParseError(t, err, ErrMalformedRow, "case-starts-at-order-1", tt.line)
		})
	}
}

func TestParse_LegacyOrderOneStartsNewCase(t *testing.T) {
	f := legacyFixture
	path := f.write(t,
		f.row(),
		f.row(),
		f.row("當事者順序", "2"),
	)

	cases, err := parse(t, false, path)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Len(t, cases[0].Parties, 1)
	assert.Len(t, cases[1].Parties, 2)
}

func TestParse_LegacySkipsArtifacts(t *testing.T) {
	f := legacyFixture
	path := f.write(t,
		f.row(),
		map[string]string{},
		f.headerRow(),
		f.row("當事者順序", "2"),
	)

	cases, err := parse(t, false, path)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Len(t, cases[0].Parties, 2)
}

func TestParse_LegacyMainCause(t *testing.T) {
	f := legacyFixture
	path := f.write(t, f.row("主要肇因", "7"))

	_, err := parse(t, true, path)
	requireParseError(t, err, ErrConsistencyViolation, "main-cause", 2)

	cases, err := parse(t, false, path)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestParse_PartyCountPerKey(t *testing.T) {
	f := hackathonFixture
	keys := []string{"A1", "B2", "A1", "C3", "B2", "A1"}
	var rows []map[string]string
	want := map[string]int{}
	for _, k := range keys {
		want[k]++
		rows = append(rows, f.row("案號", k, "件數", k, "當事人序", strconv.Itoa(want[k])))
	}

	cases, err := parse(t, false, f.write(t, rows...))
	require.NoError(t, err)
	require.Len(t, cases, 3)

	got := []int{len(cases[0].Parties), len(cases[1].Parties), len(cases[2].Parties)}
	assert.Equal(t, []int{want["A1"], want["B2"], want["C3"]}, got)
}

func TestParse_Idempotent(t *testing.T) {
	fixtures := map[string]string{
		"hackathon": hackathonFixture.write(t,
			hackathonFixture.row(),
			hackathonFixture.row("當事人序", "2"),
			hackathonFixture.row("案號", "A2", "件數", "A2")),
		"modern": modernFixture.write(t,
			modernFixture.row(),
			modernFixture.row("當事者順序", "2")),
		"legacy": legacyFixture.write(t,
			legacyFixture.row(),
			legacyFixture.row("當事者順序", "2")),
	}
	for name, path := range fixtures {
		t.Run(name, func(t *testing.T) {
			p := New(Options{Verify: true})
			first, err := p.Parse(context.Background(), path)
			require.NoError(t, err)
			second, err := p.Parse(context.Background(), path)
			require.NoError(t, err)

			require.Equal(t, len(first), len(second))
			for i := range first {
				assert.NotEqual(t, first[i].ID, second[i].ID)
				assert.Equal(t, first[i].Fingerprint(), second[i].Fingerprint())

				got, err := first[i].RederiveSeverity()
				require.NoError(t, err)
				assert.Equal(t, first[i].Severity, got)
			}
		})
	}
}

func TestParse_Reentrant(t *testing.T) {
	path := hackathonFixture.write(t, hackathonFixture.row())

	var p *Parser
	var inner error
	p = New(Options{Source: rowsource.Options{
		OnHeader: func([]string) error {
			_, inner = p.Parse(context.Background(), path)
			return nil
		},
	}})

	cases, err := p.Parse(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, cases, 1)

	require.Error(t, inner)
	assert.ErrorIs(t, inner, rowsource.ErrReentrantParse)
	var re *rowsource.ReentrantError
	require.ErrorAs(t, inner, &re)
	assert.Equal(t, path, re.Path)
}

func TestParse_Cancelled(t *testing.T) {
	path := hackathonFixture.write(t, hackathonFixture.row())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Parse(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParse_MissingFile(t *testing.T) {
	_, err := parse(t, false, "/nonexistent/export.csv")
	require.Error(t, err)
	var pe *ParseError
	assert.False(t, errors.As(err, &pe))
}

func TestParse_Metrics(t *testing.T) {
	rec := metrics.New()
	f := hackathonFixture
	path := f.write(t,
		f.row("31駕駛執照種類", "19*"),
		f.row("當事人序", "2", "年齡", "abc"),
		f.row("案號", "A2", "件數", "A2"),
	)

	p := New(Options{Metrics: rec})
	_, err := p.Parse(context.Background(), path)
	require.NoError(t, err)

	bad := fixture{header: []string{"foo"}}.write(t, map[string]string{"foo": "1"})
	_, err = p.Parse(context.Background(), bad)
	require.Error(t, err)

	expected := `
# HELP accident_cases_total Cases rebuilt from export files, by schema variant.
# TYPE accident_cases_total counter
accident_cases_total{schema="hackathon"} 2
# HELP accident_exceptions_applied_total Known bad values recovered through the exception table.
# TYPE accident_exceptions_applied_total counter
accident_exceptions_applied_total{action="override",column="31駕駛執照種類"} 1
# HELP accident_parse_failures_total Aborted parses, by error kind.
# TYPE accident_parse_failures_total counter
accident_parse_failures_total{kind="unsupported_schema"} 1
# HELP accident_rows_total Rows read from export files, by schema variant.
# TYPE accident_rows_total counter
accident_rows_total{schema="hackathon"} 3
# HELP accident_values_skipped_total Optional values left unset because they were not numeric.
# TYPE accident_values_skipped_total counter
accident_values_skipped_total{column="年齡"} 1
`
	require.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected),
		"accident_cases_total",
		"accident_exceptions_applied_total",
		"accident_parse_failures_total",
		"accident_rows_total",
		"accident_values_skipped_total",
	))
}
