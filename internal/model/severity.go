package model

import "github.com/rotisserie/eris"

// Severity is the worst outcome of a case.
type Severity int

const (
	DeathIn24Hours Severity = iota + 1
	DeathBetween2To30Days
	// InjuryOnlyOrDeathBetween2To30Days is used when the export does not say
	// whether an injured party died within 30 days.
	InjuryOnlyOrDeathBetween2To30Days
	InjuryOnly
	OnlyPropertyDamage
	SelfSettlement
)

// String returns the snake_case name of the severity.
func (s Severity) String() string {
	switch s {
	case DeathIn24Hours:
		return "death_in_24_hours"
	case DeathBetween2To30Days:
		return "death_between_2_to_30_days"
	case InjuryOnlyOrDeathBetween2To30Days:
		return "injury_only_or_death_between_2_to_30_days"
	case InjuryOnly:
		return "injury_only"
	case OnlyPropertyDamage:
		return "only_property_damage"
	case SelfSettlement:
		return "self_settlement"
	default:
		return "unknown"
	}
}

// Processing codes ("處理別") used by the exports that carry one.
const (
	ProcessingDeathIn24Hours = 1
	ProcessingInjury         = 2
	ProcessingPropertyDamage = 3
	ProcessingSelfSettlement = 4
)

// ErrInvalidProcessingCode is returned for a processing code outside 1-4.
var ErrInvalidProcessingCode = eris.New("invalid processing code")

// DeriveSeverity computes a case severity from its counts and, when the
// source has one, its processing code. A nil count means the export did not
// record it. When the export cannot tell an injury-only case from a later
// death, the ambiguous severity is returned. A missing 2-30 day death count
// is treated as unknown, never as zero.
func DeriveSeverity(deathIn24h, deathIn30Days, injury, processingCode *int) (Severity, error) {
	if processingCode != nil {
		switch *processingCode {
		case ProcessingDeathIn24Hours:
			return DeathIn24Hours, nil
		case ProcessingInjury:
			switch {
			case deathIn30Days == nil:
				return InjuryOnlyOrDeathBetween2To30Days, nil
			case *deathIn30Days > 0:
				return DeathBetween2To30Days, nil
			default:
				return InjuryOnly, nil
			}
		case ProcessingPropertyDamage:
			return OnlyPropertyDamage, nil
		case ProcessingSelfSettlement:
			return SelfSettlement, nil
		default:
			return 0, eris.Wrapf(ErrInvalidProcessingCode, "code %d", *processingCode)
		}
	}

	switch {
	case positive(deathIn24h):
		return DeathIn24Hours, nil
	case positive(deathIn30Days):
		return DeathBetween2To30Days, nil
	case positive(injury):
		if deathIn30Days == nil {
			return InjuryOnlyOrDeathBetween2To30Days, nil
		}
		return InjuryOnly, nil
	default:
		return OnlyPropertyDamage, nil
	}
}

func positive(n *int) bool {
	return n != nil && *n > 0
}
