package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrashAreas_Add(t *testing.T) {
	var ca CrashAreas
	assert.True(t, ca.IsZero())

	require.NoError(t, ca.Add(CrashAreaCarFront))
	require.NoError(t, ca.Add(CrashAreaCarRear))
	assert.Equal(t, 2, ca.Len())

	err := ca.Add(CrashAreaCarLeft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCrashAreaOverflow))
	assert.Equal(t, []CrashArea{CrashAreaCarFront, CrashAreaCarRear}, ca.Codes())

	main, ok := ca.Main()
	assert.True(t, ok)
	assert.Equal(t, CrashAreaCarFront, main)
	sub, ok := ca.Secondary()
	assert.True(t, ok)
	assert.Equal(t, CrashAreaCarRear, sub)
}

func TestCrashAreas_JSON(t *testing.T) {
	var ca CrashAreas
	require.NoError(t, ca.Add(CrashAreaMotorcycleFront))

	data, err := json.Marshal(ca)
	require.NoError(t, err)
	assert.JSONEq(t, `[11]`, string(data))

	var back CrashAreas
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ca, back)

	err = json.Unmarshal([]byte(`[1,2,3]`), &back)
	assert.True(t, errors.Is(err, ErrCrashAreaOverflow))
}

func TestLookupVehicle(t *testing.T) {
	tests := []struct {
		code string
		want VehicleCategory
		ok   bool
	}{
		{"A01", CategoryBus, true},
		{"B03", CategoryCar, true},
		{"C03", CategoryMotorcycle, true},
		{"F01", CategoryBicycle, true},
		{"H01", CategoryPedestrian, true},
		{"", CategoryOther, true},
		{"Z99", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			v, ok := LookupVehicle(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v.Category)
		})
	}
}

func sampleCase() Case {
	w := WeatherSunny
	g := GenderFemale
	run := false
	var ca CrashAreas
	_ = ca.Add(CrashAreaCarFront)
	return Case{
		ID:                        "a",
		Date:                      time.Date(2017, 3, 4, 10, 20, 0, 0, TaipeiZone),
		Location:                  "臺北市中正區忠孝東路一段",
		FirstAdministrativeLevel:  "臺北市",
		SecondAdministrativeLevel: "中正區",
		Severity:                  InjuryOnly,
		ProcessingCode:            intPtr(2),
		Weather:                   &w,
		GPS:                       &GPS{Lng: 121.5, Lat: 25.04},
		Parties: []Party{
			{ID: "p1", Order: 1, Vehicle: Vehicle{Code: "B03", Category: CategoryCar}, Gender: &g, CrashArea: ca, IsHitAndRun: &run},
		},
	}
}

func TestFingerprint_IgnoresIDs(t *testing.T) {
	a := sampleCase()
	b := sampleCase()
	b.ID = "b"
	b.Parties[0].ID = "p2"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprint_DetectsChanges(t *testing.T) {
	baseCase := sampleCase()
	base := baseCase.Fingerprint()

	mutations := map[string]func(c *Case){
		"location":    func(c *Case) { c.Location += "巷" },
		"weather nil": func(c *Case) { c.Weather = nil },
		"gps":         func(c *Case) { c.GPS = nil },
		"hit and run": func(c *Case) { c.Parties[0].IsHitAndRun = nil },
		"crash area":  func(c *Case) { _ = c.Parties[0].CrashArea.Add(CrashAreaCarRear) },
		"party added": func(c *Case) { c.Parties = append(c.Parties, Party{Order: 2}) },
		"date":        func(c *Case) { c.Date = c.Date.Add(time.Minute) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			c := sampleCase()
			mutate(&c)
			assert.NotEqual(t, base, c.Fingerprint())
		})
	}
}
