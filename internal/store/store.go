// Package store persists parsed cases in SQLite or Postgres.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/accident-cli/internal/config"
	"github.com/sells-group/accident-cli/internal/model"
)

// ErrDisabled is returned by Open when no driver is configured.
var ErrDisabled = eris.New("store: disabled")

// Store defines the persistence interface for parsed cases. Cases are saved
// per source file; saving a file again replaces its previous rows.
type Store interface {
	SaveCases(ctx context.Context, sourceFile string, cases []model.Case) (int64, error)
	CountCases(ctx context.Context, sourceFile string) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open selects a Store implementation by driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{
			MaxConns: cfg.MaxConns,
			MinConns: cfg.MinConns,
		})
	case "":
		return nil, ErrDisabled
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

var caseColumns = []string{
	"id", "case_id", "source_file", "content_hash", "occurred_at", "location",
	"first_admin", "second_admin", "severity", "lng", "lat", "gps",
	"death_in_24_hours", "death_in_30_days", "injury", "data",
}

var partyColumns = []string{
	"id", "case_row_id", "party_id", "position", "party_order",
	"vehicle_code", "vehicle_category", "data",
}

// flatten turns cases into column-ordered values for caseColumns and
// partyColumns. JSON payloads are returned as strings.
func flatten(sourceFile string, cases []model.Case) (caseRows, partyRows [][]any, err error) {
	caseRows = make([][]any, 0, len(cases))
	for i := range cases {
		c := &cases[i]
		rowID := uuid.New().String()

		data, err := caseData(c)
		if err != nil {
			return nil, nil, err
		}

		var lng, lat any
		gps, err := encodePoint(c.GPS)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "store: case %s", c.ID)
		}
		if c.GPS != nil {
			lng, lat = c.GPS.Lng, c.GPS.Lat
		}

		caseRows = append(caseRows, []any{
			rowID, c.ID, sourceFile, contentHash(c), c.Date.UTC(), c.Location,
			c.FirstAdministrativeLevel, c.SecondAdministrativeLevel, int(c.Severity),
			lng, lat, gps,
			nullable(c.DeathIn24Hours), nullable(c.DeathIn30Days), nullable(c.Injury),
			string(data),
		})

		for j := range c.Parties {
			p := &c.Parties[j]
			pdata, err := json.Marshal(p)
			if err != nil {
				return nil, nil, eris.Wrapf(err, "store: marshal party %s", p.ID)
			}
			partyRows = append(partyRows, []any{
				uuid.New().String(), rowID, p.ID, j, p.Order,
				p.Vehicle.Code, string(p.Vehicle.Category), string(pdata),
			})
		}
	}
	return caseRows, partyRows, nil
}

// caseData is the case without its parties, which get their own rows.
func caseData(c *model.Case) ([]byte, error) {
	flat := *c
	flat.Parties = nil
	data, err := json.Marshal(flat)
	if err != nil {
		return nil, eris.Wrapf(err, "store: marshal case %s", c.ID)
	}
	return data, nil
}

func contentHash(c *model.Case) string {
	return fmt.Sprintf("%016x", c.Fingerprint())
}

// encodePoint returns the EWKB of a WGS84 point, or nil without a position.
func encodePoint(gps *model.GPS) ([]byte, error) {
	if gps == nil {
		return nil, nil
	}
	p := geom.NewPointFlat(geom.XY, []float64{gps.Lng, gps.Lat}).SetSRID(4326)
	data, err := ewkb.Marshal(p, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "store: encode point")
	}
	return data, nil
}

func nullable(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func now() time.Time { return time.Now().UTC() }
