package model

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Fingerprint hashes every field of the case and its parties except the
// generated IDs. Two parses of the same file yield equal fingerprints.
func (c *Case) Fingerprint() uint64 {
	f := fingerprinter{h: xxh3.New()}

	f.putString(c.Date.UTC().Format("2006-01-02T15:04:05.000"))
	f.putString(c.Location)
	f.putString(c.FirstAdministrativeLevel)
	f.putString(c.SecondAdministrativeLevel)
	f.putInt(int(c.Severity))
	f.putOpt(c.ProcessingCode)
	if c.GPS != nil {
		f.putInt(1)
		f.putFloat(c.GPS.Lng)
		f.putFloat(c.GPS.Lat)
	} else {
		f.putInt(0)
	}
	f.putOpt(c.DeathIn24Hours)
	f.putOpt(c.DeathIn30Days)
	f.putOpt(c.Injury)
	f.putOpt(asInt(c.Weather))
	f.putOpt(asInt(c.Light))
	f.putOpt(asInt(c.RoadHierarchy))
	f.putOpt(c.SpeedLimit)
	f.putOpt(asInt(c.RoadGeometry))
	f.putOpt(asInt(c.Position))
	f.putOpt(asInt(c.RoadMaterial))
	f.putOpt(asInt(c.RoadSurfaceWet))
	f.putOpt(asInt(c.RoadSurfaceDefect))
	f.putOpt(asInt(c.Obstacle))
	f.putOpt(asInt(c.SightDistance))
	f.putOpt(asInt(c.TrafficSignal))
	f.putOpt(asInt(c.TrafficSignalStatus))
	f.putOpt(asInt(c.DirectionDivider))
	f.putOpt(asInt(c.NormalLaneDivider))
	f.putOpt(asInt(c.FastSlowLaneDivider))
	f.putOpt(asInt(c.EdgeLine))
	f.putOpt(asInt(c.CrashType))

	f.putInt(len(c.Parties))
	for i := range c.Parties {
		p := &c.Parties[i]
		f.putInt(p.Order)
		f.putString(p.Vehicle.Code)
		f.putString(string(p.Vehicle.Category))
		f.putOpt(asInt(p.Gender))
		f.putOpt(p.Age)
		f.putOpt(asInt(p.InjurySeverity))
		f.putOpt(asInt(p.InjuredArea))
		f.putOpt(asInt(p.SafetyDevice))
		f.putOpt(asInt(p.Smartphone))
		f.putOpt(asInt(p.VehicleUsage))
		f.putOpt(asInt(p.Action))
		f.putOpt(asInt(p.DriverQualification))
		f.putOpt(asInt(p.License))
		f.putOpt(asInt(p.DrunkDriving))
		f.putInt(p.CrashArea.Len())
		for _, code := range p.CrashArea.Codes() {
			f.putInt(int(code))
		}
		f.putOpt(asInt(p.Cause))
		switch {
		case p.IsHitAndRun == nil:
			f.putInt(-1)
		case *p.IsHitAndRun:
			f.putInt(1)
		default:
			f.putInt(0)
		}
		f.putOpt(asInt(p.Job))
		f.putOpt(asInt(p.TravelPurpose))
		f.putOpt(asInt(p.Citizenship))
	}

	return f.h.Sum64()
}

type fingerprinter struct {
	h   *xxh3.Hasher
	buf [8]byte
}

func (f *fingerprinter) putInt(n int) {
	binary.LittleEndian.PutUint64(f.buf[:], uint64(int64(n)))
	_, _ = f.h.Write(f.buf[:])
}

func (f *fingerprinter) putFloat(v float64) {
	binary.LittleEndian.PutUint64(f.buf[:], math.Float64bits(v))
	_, _ = f.h.Write(f.buf[:])
}

func (f *fingerprinter) putString(s string) {
	f.putInt(len(s))
	_, _ = f.h.WriteString(s)
}

// putOpt distinguishes an absent value from any present one.
func (f *fingerprinter) putOpt(n *int) {
	if n == nil {
		f.putInt(0)
		return
	}
	f.putInt(1)
	f.putInt(*n)
}

func asInt[T ~int](v *T) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
