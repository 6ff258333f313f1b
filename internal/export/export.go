// Package export writes parsed cases as flat CSV (one line per case, parties
// spread over numbered column groups) or as a JSON array.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/accident-cli/internal/model"
)

// Formats understood by Export.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var caseColumns = []string{
	"id", "date", "location", "firstAdministrativeLevel", "secondAdministrativeLevel",
	"severity", "processingCode", "gpsLng", "gpsLat",
	"deathIn24Hours", "deathIn30Days", "injury",
	"weather", "light", "roadHierarchy", "speedLimit", "roadGeometry", "position",
	"roadMaterial", "roadSurfaceWet", "roadSurfaceDefect", "obstacle", "sightDistance",
	"trafficSignal", "trafficSignalStatus", "directionDivider", "normalLaneDivider",
	"fastSlowLaneDivider", "edgeLine", "crashType",
}

var partyColumns = []string{
	"id", "order", "vehicleCode", "vehicleCategory", "gender", "age",
	"injurySeverity", "injuredArea", "safetyDevice", "smartphone", "vehicleUsage",
	"action", "driverQualification", "license", "drunkDriving",
	"crashAreaMain", "crashAreaSub", "cause", "isHitAndRun", "job",
	"travelPurpose", "citizenship",
}

// Header returns the CSV header for maxParties party groups.
func Header(maxParties int) []string {
	header := append([]string(nil), caseColumns...)
	for n := 1; n <= maxParties; n++ {
		suffix := "Party" + strconv.Itoa(n)
		for _, col := range partyColumns {
			header = append(header, col+suffix)
		}
	}
	return header
}

// WriteCSV writes one line per case. Parties beyond maxParties are left out
// of the line with a warning; the cases themselves are not modified.
func WriteCSV(w io.Writer, cases []model.Case, maxParties int) error {
	if maxParties <= 0 {
		return eris.Errorf("export: maxParties must be positive, got %d", maxParties)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header(maxParties)); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	width := len(caseColumns) + maxParties*len(partyColumns)
	record := make([]string, 0, width)
	for i := range cases {
		c := &cases[i]
		record = append(record[:0], caseRecord(c)...)

		parties := c.Parties
		if len(parties) > maxParties {
			zap.L().Warn("export: dropping parties beyond the column limit",
				zap.String("case_id", c.ID),
				zap.Int("parties", len(parties)),
				zap.Int("max_parties", maxParties),
			)
			parties = parties[:maxParties]
		}
		for j := range parties {
			record = append(record, partyRecord(&parties[j])...)
		}
		for len(record) < width {
			record = append(record, "")
		}

		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "export: write case %s", c.ID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteJSON writes the cases as an indented JSON array.
func WriteJSON(w io.Writer, cases []model.Case) error {
	if cases == nil {
		cases = []model.Case{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(cases), "export: encode json")
}

// Export writes cases to path in the given format.
func Export(path, format string, cases []model.Case, maxParties int) error {
	if format != FormatCSV && format != FormatJSON {
		return eris.Errorf("export: unknown format %q", format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}

	if format == FormatJSON {
		err = WriteJSON(f, cases)
	} else {
		err = WriteCSV(f, cases, maxParties)
	}
	if err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}

// OutputPath names the export of input inside dir.
func OutputPath(dir, input, format string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"."+format)
}

func caseRecord(c *model.Case) []string {
	var lng, lat string
	if c.GPS != nil {
		lng = strconv.FormatFloat(c.GPS.Lng, 'f', -1, 64)
		lat = strconv.FormatFloat(c.GPS.Lat, 'f', -1, 64)
	}
	return []string{
		c.ID,
		c.Date.Format(time.RFC3339),
		c.Location,
		c.FirstAdministrativeLevel,
		c.SecondAdministrativeLevel,
		strconv.Itoa(int(c.Severity)),
		opt(c.ProcessingCode),
		lng,
		lat,
		opt(c.DeathIn24Hours),
		opt(c.DeathIn30Days),
		opt(c.Injury),
		opt(c.Weather),
		opt(c.Light),
		opt(c.RoadHierarchy),
		opt(c.SpeedLimit),
		opt(c.RoadGeometry),
		opt(c.Position),
		opt(c.RoadMaterial),
		opt(c.RoadSurfaceWet),
		opt(c.RoadSurfaceDefect),
		opt(c.Obstacle),
		opt(c.SightDistance),
		opt(c.TrafficSignal),
		opt(c.TrafficSignalStatus),
		opt(c.DirectionDivider),
		opt(c.NormalLaneDivider),
		opt(c.FastSlowLaneDivider),
		opt(c.EdgeLine),
		opt(c.CrashType),
	}
}

func partyRecord(p *model.Party) []string {
	var main, sub string
	if code, ok := p.CrashArea.Main(); ok {
		main = strconv.Itoa(int(code))
	}
	if code, ok := p.CrashArea.Secondary(); ok {
		sub = strconv.Itoa(int(code))
	}
	var hitAndRun string
	if p.IsHitAndRun != nil {
		hitAndRun = strconv.FormatBool(*p.IsHitAndRun)
	}
	return []string{
		p.ID,
		strconv.Itoa(p.Order),
		p.Vehicle.Code,
		string(p.Vehicle.Category),
		opt(p.Gender),
		opt(p.Age),
		opt(p.InjurySeverity),
		opt(p.InjuredArea),
		opt(p.SafetyDevice),
		opt(p.Smartphone),
		opt(p.VehicleUsage),
		opt(p.Action),
		opt(p.DriverQualification),
		opt(p.License),
		opt(p.DrunkDriving),
		main,
		sub,
		opt(p.Cause),
		hitAndRun,
		opt(p.Job),
		opt(p.TravelPurpose),
		opt(p.Citizenship),
	}
}

func opt[T ~int](v *T) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}
