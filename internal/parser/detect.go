package parser

import (
	"slices"

	"github.com/sells-group/accident-cli/internal/address"
	"github.com/sells-group/accident-cli/internal/normalize"
)

// Schema is one of the known export layouts.
type Schema string

const (
	// SchemaHackathon is the Taipei open-data hackathon export (2016-2020).
	SchemaHackathon Schema = "hackathon"
	// SchemaModern is the Taoyuan export with split address columns (2016 on).
	SchemaModern Schema = "modern"
	// SchemaLegacy is the Taoyuan export before 2016.
	SchemaLegacy Schema = "legacy"
)

// Marker columns, checked in this order.
const (
	hackathonMarker = "肇因研判O"
	modernMarker    = "發生日期"
	legacyMarker    = "西元年"
)

// Detect picks the schema from the header.
func Detect(header []string) (Schema, error) {
	switch {
	case slices.Contains(header, hackathonMarker):
		return SchemaHackathon, nil
	case slices.Contains(header, modernMarker):
		return SchemaModern, nil
	case slices.Contains(header, legacyMarker):
		return SchemaLegacy, nil
	default:
		return "", ErrUnsupportedSchema
	}
}

// Policy returns the absent-value policy of the schema.
func (s Schema) Policy() normalize.Policy {
	switch s {
	case SchemaHackathon:
		return normalize.HackathonPolicy
	case SchemaModern:
		return normalize.ModernPolicy
	default:
		return normalize.LegacyPolicy
	}
}

// AddressStyle returns the location composition rules of the schema.
func (s Schema) AddressStyle() address.Style {
	switch s {
	case SchemaHackathon:
		return address.Hackathon
	case SchemaModern:
		return address.Modern
	default:
		return address.Legacy
	}
}
