package parser

import (
	"encoding/csv"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixture describes one export layout with a valid base row.
type fixture struct {
	header []string
	base   map[string]string
}

// row returns the base row with the given column/value pairs replaced.
func (f fixture) row(pairs ...string) map[string]string {
	r := maps.Clone(f.base)
	for i := 0; i+1 < len(pairs); i += 2 {
		r[pairs[i]] = pairs[i+1]
	}
	return r
}

// without drops a column from the header.
func (f fixture) without(col string) fixture {
	return fixture{
		header: slices.DeleteFunc(slices.Clone(f.header), func(h string) bool { return h == col }),
		base:   f.base,
	}
}

// headerRow renders the header itself as a data row.
func (f fixture) headerRow() map[string]string {
	r := make(map[string]string, len(f.header))
	for _, h := range f.header {
		r[h] = h
	}
	return r
}

func (f fixture) write(t *testing.T, rows ...map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	file, err := os.Create(path)
	require.NoError(t, err)

	w := csv.NewWriter(file)
	require.NoError(t, w.Write(f.header))
	for _, r := range rows {
		record := make([]string, len(f.header))
		for i, h := range f.header {
			record[i] = r[h]
		}
		require.NoError(t, w.Write(record))
	}
	w.Flush()
	require.NoError(t, w.Error())
	require.NoError(t, file.Close())
	return path
}

func partyHeader(c partyColumns) []string {
	return []string{
		c.order, c.vehicle, c.gender, c.age, c.injurySeverity, c.injuredArea,
		c.safetyDevice, c.smartphone, c.vehicleUsage, c.action, c.driverQualification,
		c.license, c.drunk, c.crashMain, c.crashOther, c.cause, c.hitAndRun, c.job,
		c.travelPurpose, c.citizenship,
	}
}

func caseHeader(c caseColumns) []string {
	return []string{
		c.weather, c.light, c.roadHierarchy, c.speedLimit, c.roadGeometry, c.position,
		c.roadMaterial, c.roadSurfaceWet, c.roadSurfaceDefect, c.obstacle, c.sightDistance,
		c.trafficSignal, c.trafficSignalStatus, c.directionDivider, c.normalLaneDivider,
		c.fastSlowLaneDivider, c.edgeLine, c.crashType,
	}
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var hackathonFixture = fixture{
	header: concat(
		[]string{
			"肇因研判O", "案號", "件數", "處理別", "發生時間", "OccurAddr1_1", "OccurAddr1_2",
			"路段", "路段2", "路段一", "路段一段", "巷", "弄", "號",
			"路段二", "路段二段", "巷(岔路)", "弄(岔路)", "號(岔路)",
			"死亡人數", "受傷人數", "2-30日死亡人數", "肇因碼-主要",
		},
		partyHeader(hackathonParty),
		caseHeader(hackathonCase),
	),
	base: map[string]string{
		"案號":           "A1",
		"件數":           "A1",
		"處理別":          "2",
		"發生時間":         "2019-01-02 08:30:00.000",
		"OccurAddr1_1": "臺北市",
		"OccurAddr1_2": "大安區",
		"路段":           "復興南路2段",
		"路段2":          "段",
		"路段一":          "復興南路",
		"路段一段":         "2",
		"死亡人數":         "0",
		"受傷人數":         "1",
		"2-30日死亡人數":    "0",
		"當事人序":         "1",
		"車種":           "C03",
		"性別":           "1",
		"年齡":           "35",
		"肇因碼-個別":       "3",
		"肇因碼-主要":       "3",
		"國籍":           "0",
		"4天候":          "8",
	},
}

var modernFixture = fixture{
	header: concat(
		[]string{
			"案件編號", "當事者案件編號", "處理別代碼", "發生日期", "發生時間",
			"發生縣市名稱", "發生市區鄉鎮名稱", "地址類型名稱",
			"發生地址_村里名稱", "發生地址_鄰", "發生地址_路街", "發生地址_段", "發生地址_巷",
			"發生地址_弄", "發生地址_號", "發生地址_前幾公尺", "發生地址_側名稱", "發生地址_其他",
			"發生交叉路口_村里名稱", "發生交叉路口_路街口", "發生交叉路口_段",
			"發生交叉路口_巷", "發生交叉路口_弄",
			"經度", "緯度", "死亡人數", "2-30日死亡人數", "受傷人數", "主要肇因代碼",
		},
		partyHeader(modernParty),
		caseHeader(modernCase),
	),
	base: map[string]string{
		"案件編號":      "T1",
		"當事者案件編號":   "T1",
		"處理別代碼":     "2",
		"發生日期":      "20170305",
		"發生時間":      "83000",
		"發生縣市名稱":    "桃園市",
		"發生市區鄉鎮名稱":  "中壢區",
		"地址類型名稱":    "一般地址",
		"發生地址_路街":   "中正路",
		"發生地址_段":    "一",
		"發生地址_號":    "100",
		"發生地址_前幾公尺": "0",
		"經度":        "121.2",
		"緯度":        "24.9",
		"死亡人數":      "0",
		"2-30日死亡人數": "0",
		"受傷人數":      "1",
		"主要肇因代碼":    "3",
		"當事者順序":     "1",
		"車種代碼":      "B03",
		"肇因個別代碼":    "3",
		"天候代碼":      "8",
	},
}

var legacyFixture = fixture{
	header: concat(
		[]string{"年月", "西元年", "月", "日", "時", "分", "死", "受傷", "事故後2至30日死亡", "主要肇因"},
		legacyLocation,
		partyHeader(legacyParty),
		caseHeader(legacyCase),
	),
	base: map[string]string{
		"年月":     "201503",
		"西元年":    "2015",
		"月":      "3",
		"日":      "4",
		"時":      "17",
		"分":      "5",
		"死":      "0",
		"受傷":     "1",
		"主要肇因":   "5",
		"縣市":     "桃園市",
		"區":      "桃園區",
		"街道":     "中山路",
		"號":      "NA",
		"當事者順序":  "1",
		"當事者區分類別": "C03",
		"肇事因素個別": "5",
		"天候":     "8",
	},
}
