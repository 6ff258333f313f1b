package parser

import (
	"strconv"

	"github.com/sells-group/accident-cli/internal/model"
	"github.com/sells-group/accident-cli/internal/normalize"
	"github.com/sells-group/accident-cli/internal/rowsource"
)

// cells reads normalized values from one row.
type cells struct {
	p   *Parser
	row rowsource.Row
}

func (p *Parser) cells(row rowsource.Row) cells {
	return cells{p: p, row: row}
}

// text returns the cleaned cell, with known text anomalies applied.
func (c cells) text(col string) string {
	return c.p.norm.Text(col, c.row.Get(col))
}

func (c cells) absent(col string) bool {
	return c.p.norm.Policy().Absent(c.row.Get(col))
}

// value returns an optional coded cell. Non-numeric values are skipped.
func (c cells) value(col string) normalize.Value {
	v := c.p.norm.Int(col, c.row.Get(col))
	if v.Kind == normalize.Invalid {
		c.p.norm.Skipped(col, v)
		return normalize.Value{Kind: normalize.Absent, Raw: v.Raw}
	}
	return v
}

// count is like value but zero is a real value.
func (c cells) count(col string) *int {
	v := c.p.norm.Count(col, c.row.Get(col))
	if v.Kind == normalize.Invalid {
		c.p.norm.Skipped(col, v)
		return nil
	}
	return normalize.Ptr[int](v)
}

func (c cells) required(col string) (int, error) {
	return c.mustBePresent(col, c.p.norm.Int(col, c.row.Get(col)))
}

func (c cells) requiredCount(col string) (int, error) {
	return c.mustBePresent(col, c.p.norm.Count(col, c.row.Get(col)))
}

func (c cells) mustBePresent(col string, v normalize.Value) (int, error) {
	switch v.Kind {
	case normalize.Present:
		return v.N, nil
	case normalize.Absent:
		return 0, c.p.malformed("required-field", "%s is empty", col)
	default:
		return 0, c.p.malformed("required-field", "%s is not numeric: %q", col, v.Raw)
	}
}

func (c cells) requiredText(col string) (string, error) {
	if c.absent(col) {
		return "", c.p.malformed("required-field", "%s is empty", col)
	}
	return c.text(col), nil
}

func (c cells) float(col string) (float64, bool) {
	if c.absent(col) {
		return 0, false
	}
	f, err := strconv.ParseFloat(c.p.norm.Policy().Clean(c.row.Get(col)), 64)
	if err != nil {
		c.p.norm.Skipped(col, normalize.Value{Kind: normalize.Invalid, Raw: c.row.Get(col)})
		return 0, false
	}
	return f, true
}

func opt[T ~int](c cells, col string) *T {
	return normalize.Ptr[T](c.value(col))
}

// partyColumns names the party columns of a schema.
type partyColumns struct {
	order, vehicle                               string
	gender, age, injurySeverity, injuredArea     string
	safetyDevice, smartphone, vehicleUsage       string
	action, driverQualification, license, drunk  string
	crashMain, crashOther, cause, hitAndRun, job string
	travelPurpose, citizenship                   string
}

// caseColumns names the environment columns of a schema.
type caseColumns struct {
	weather, light, roadHierarchy, speedLimit, roadGeometry, position string
	roadMaterial, roadSurfaceWet, roadSurfaceDefect                   string
	obstacle, sightDistance, trafficSignal, trafficSignalStatus       string
	directionDivider, normalLaneDivider, fastSlowLaneDivider          string
	edgeLine, crashType                                               string
}

func (c cells) party(cols partyColumns) (model.Party, error) {
	order, err := c.required(cols.order)
	if err != nil {
		return model.Party{}, err
	}

	vehicle := model.OtherVehicle
	if !c.absent(cols.vehicle) {
		code := c.text(cols.vehicle)
		v, ok := model.LookupVehicle(code)
		if !ok {
			return model.Party{}, c.p.malformed("vehicle-code", "unknown vehicle code %q", code)
		}
		vehicle = v
	}

	party := model.Party{
		ID:                  newID(),
		Order:               order,
		Vehicle:             vehicle,
		Gender:              opt[model.Gender](c, cols.gender),
		Age:                 opt[int](c, cols.age),
		InjurySeverity:      opt[model.InjurySeverity](c, cols.injurySeverity),
		InjuredArea:         opt[model.InjuredArea](c, cols.injuredArea),
		SafetyDevice:        opt[model.SafetyDevice](c, cols.safetyDevice),
		Smartphone:          opt[model.Smartphone](c, cols.smartphone),
		VehicleUsage:        opt[model.VehicleUsage](c, cols.vehicleUsage),
		Action:              opt[model.Action](c, cols.action),
		DriverQualification: opt[model.DriverQualification](c, cols.driverQualification),
		License:             opt[model.License](c, cols.license),
		DrunkDriving:        opt[model.DrunkDriving](c, cols.drunk),
		Cause:               opt[model.Cause](c, cols.cause),
		Job:                 opt[model.Job](c, cols.job),
		TravelPurpose:       opt[model.TravelPurpose](c, cols.travelPurpose),
	}

	for _, col := range []string{cols.crashMain, cols.crashOther} {
		if code := opt[model.CrashArea](c, col); code != nil {
			if err := party.CrashArea.Add(*code); err != nil {
				return model.Party{}, c.p.malformed("crash-area", "%v", err)
			}
		}
	}

	run := c.value(cols.hitAndRun)
	if v, ok := normalize.HitAndRun(run); ok {
		party.IsHitAndRun = v
	} else {
		c.p.norm.Skipped(cols.hitAndRun, run)
	}

	// The export codes citizenship from zero.
	if n := c.count(cols.citizenship); n != nil {
		ct := model.Citizenship(*n + 1)
		party.Citizenship = &ct
	}
	return party, nil
}

func (c cells) environment(cs *model.Case, cols caseColumns) {
	cs.Weather = opt[model.Weather](c, cols.weather)
	cs.Light = opt[model.Light](c, cols.light)
	cs.RoadHierarchy = opt[model.RoadHierarchy](c, cols.roadHierarchy)
	cs.SpeedLimit = opt[int](c, cols.speedLimit)
	cs.RoadGeometry = opt[model.RoadGeometry](c, cols.roadGeometry)
	cs.Position = opt[model.Position](c, cols.position)
	cs.RoadMaterial = opt[model.RoadMaterial](c, cols.roadMaterial)
	cs.RoadSurfaceWet = opt[model.RoadSurfaceWet](c, cols.roadSurfaceWet)
	cs.RoadSurfaceDefect = opt[model.RoadSurfaceDefect](c, cols.roadSurfaceDefect)
	cs.Obstacle = opt[model.Obstacle](c, cols.obstacle)
	cs.SightDistance = opt[model.SightDistance](c, cols.sightDistance)
	cs.TrafficSignal = opt[model.TrafficSignal](c, cols.trafficSignal)
	cs.TrafficSignalStatus = opt[model.TrafficSignalStatus](c, cols.trafficSignalStatus)
	cs.DirectionDivider = opt[model.DirectionDivider](c, cols.directionDivider)
	cs.NormalLaneDivider = opt[model.NormalLaneDivider](c, cols.normalLaneDivider)
	cs.FastSlowLaneDivider = opt[model.FastSlowLaneDivider](c, cols.fastSlowLaneDivider)
	cs.EdgeLine = opt[model.EdgeLine](c, cols.edgeLine)
	cs.CrashType = opt[model.CrashType](c, cols.crashType)
}

// severity derives the case severity, turning an invalid processing code
// into a malformed row.
func (c cells) severity(d24, d30, injury, processing *int) (model.Severity, error) {
	s, err := model.DeriveSeverity(d24, d30, injury, processing)
	if err != nil {
		return 0, c.p.malformed("processing-code", "%v", err)
	}
	return s, nil
}

// sameCause reports whether the main-cause cell matches a party cause.
func (c cells) sameCause(mainCol string, cause *model.Cause) bool {
	main := opt[model.Cause](c, mainCol)
	switch {
	case main == nil && cause == nil:
		return true
	case main == nil || cause == nil:
		return false
	default:
		return *main == *cause
	}
}
