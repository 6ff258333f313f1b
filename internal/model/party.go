package model

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Party is one participant of a Case.
type Party struct {
	ID      string  `json:"id"`
	Order   int     `json:"order"`
	Vehicle Vehicle `json:"vehicle"`

	Gender              *Gender              `json:"gender,omitempty"`
	Age                 *int                 `json:"age,omitempty"`
	InjurySeverity      *InjurySeverity      `json:"injury_severity,omitempty"`
	InjuredArea         *InjuredArea         `json:"injured_area,omitempty"`
	SafetyDevice        *SafetyDevice        `json:"safety_device,omitempty"`
	Smartphone          *Smartphone          `json:"smartphone,omitempty"`
	VehicleUsage        *VehicleUsage        `json:"vehicle_usage,omitempty"`
	Action              *Action              `json:"action,omitempty"`
	DriverQualification *DriverQualification `json:"driver_qualification,omitempty"`
	License             *License             `json:"license,omitempty"`
	DrunkDriving        *DrunkDriving        `json:"drunk_driving,omitempty"`
	CrashArea           CrashAreas           `json:"crash_area,omitzero"`
	Cause               *Cause               `json:"cause,omitempty"`
	IsHitAndRun         *bool                `json:"is_hit_and_run,omitempty"`
	Job                 *Job                 `json:"job,omitempty"`
	TravelPurpose       *TravelPurpose       `json:"travel_purpose,omitempty"`
	Citizenship         *Citizenship         `json:"citizenship,omitempty"`
}

// ErrCrashAreaOverflow is returned when a third crash area is added.
var ErrCrashAreaOverflow = eris.New("crash area holds at most two codes")

// CrashAreas holds the main and, optionally, the secondary impact point.
type CrashAreas struct {
	codes [2]CrashArea
	n     int
}

// Add appends a code. Values beyond the second are rejected.
func (c *CrashAreas) Add(code CrashArea) error {
	if c.n == len(c.codes) {
		return eris.Wrapf(ErrCrashAreaOverflow, "adding %d", code)
	}
	c.codes[c.n] = code
	c.n++
	return nil
}

// Len returns the number of recorded codes.
func (c CrashAreas) Len() int { return c.n }

// IsZero reports whether no code is recorded.
func (c CrashAreas) IsZero() bool { return c.n == 0 }

// Main returns the main impact point.
func (c CrashAreas) Main() (CrashArea, bool) {
	if c.n == 0 {
		return 0, false
	}
	return c.codes[0], true
}

// Secondary returns the secondary impact point.
func (c CrashAreas) Secondary() (CrashArea, bool) {
	if c.n < 2 {
		return 0, false
	}
	return c.codes[1], true
}

// Codes returns a copy of the recorded codes.
func (c CrashAreas) Codes() []CrashArea {
	return append([]CrashArea(nil), c.codes[:c.n]...)
}

func (c CrashAreas) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Codes())
}

func (c *CrashAreas) UnmarshalJSON(data []byte) error {
	var codes []CrashArea
	if err := json.Unmarshal(data, &codes); err != nil {
		return eris.Wrap(err, "crash area: unmarshal")
	}
	*c = CrashAreas{}
	for _, code := range codes {
		if err := c.Add(code); err != nil {
			return err
		}
	}
	return nil
}

// Gender of the party. HitAndRun is recorded when the party fled unidentified.
type Gender int

const (
	GenderMale Gender = iota + 1
	GenderFemale
	GenderNothingOrStuff
	GenderHitAndRun
)

// InjurySeverity of the party.
type InjurySeverity int

const (
	InjuryDeath InjurySeverity = iota + 1
	InjuryInjured
	InjuryNone
	InjuryUnknown
	InjuryDeathIn30Days
)

// InjuredArea is the main injured body part.
type InjuredArea int

const (
	InjuredHead InjuredArea = iota + 1
	InjuredNeck
	InjuredChest
	InjuredAbdomen
	InjuredWaist
	InjuredBack
	InjuredHand
	InjuredLeg
	InjuredMultiple
	InjuredNone
	InjuredUnknown
)

// SafetyDevice use (helmet, seat belt).
type SafetyDevice int

const (
	SafetyDeviceUsed SafetyDevice = iota + 1
	SafetyDeviceNotUsed
	SafetyDeviceUnknown
	SafetyDeviceOther
)

// Smartphone use while driving.
type Smartphone int

const (
	PhoneNotUsed Smartphone = iota + 1
	PhoneHandheld
	PhoneHandsFree
	PhoneUnknown
	PhoneNotDriver
)

// Action of the party at the time of the crash.
type Action int

const (
	ActionPullingOut Action = iota + 1
	ActionReversing
	ActionDoingParking
	ActionOvertaking
	ActionTurningLeft
	ActionTurningRight
	ActionChangingToLeftLane
	ActionChangingToRightLane
	ActionForward
	ActionInsertingIntoLine
	ActionUTurningOrCrossing
	ActionSuddenStop
	ActionParking
	ActionStoppingOrWaiting
	ActionOtherVehicleAction
	ActionWalking
	ActionStanding
	ActionRunning
	ActionGettingOnOrOff
	ActionOtherPeopleAction
	ActionUnknown
)

// DriverQualification describes the driver's license status.
type DriverQualification int

const (
	QualificationHasLicense DriverQualification = iota + 1
	QualificationNoLicenseUnderAge
	QualificationNoLicenseOverAge
	QualificationDriveOverLevel
	QualificationSuspended
	QualificationRevoked
	QualificationUnknown
	QualificationNotDriver
)

// License class held by the driver.
type License int

const (
	LicenseBusinessTrailer License = iota + 1
	LicenseBusinessBus
	LicenseBusinessHeavyTruck
	LicenseBusinessCar
	LicenseNormalTrailer
	LicenseNormalBus
	LicenseNormalHeavyTruck
	LicenseNormalCar
	LicenseMotorcycle250Up
	LicenseMotorcycle50To249
	LicenseMotorcycle49Under
	LicenseMilitaryBus
	LicenseMilitaryHeavyTruck
	LicenseMilitaryCar
	LicenseInternational
	LicenseOther
	LicenseLearning
	LicenseNone
	LicenseUnknown
	LicenseNotDriver
)

// DrunkDriving is the measured breath alcohol level.
type DrunkDriving int

const (
	DrunkLookNotDrunk DrunkDriving = iota + 1
	DrunkNoReaction
	DrunkAtMost015 // <= 0.15 mg/L
	Drunk016To025
	Drunk026To040
	Drunk041To055
	Drunk056To080
	DrunkOver080
	DrunkCannotTest
	DrunkNotDriverOrNotTested
	DrunkUnknown
)

// CrashArea is an impact point on the vehicle.
type CrashArea int

const (
	CrashAreaCarFront CrashArea = iota + 1
	CrashAreaCarRight
	CrashAreaCarRear
	CrashAreaCarLeft
	CrashAreaCarRightFront
	CrashAreaCarRightRear
	CrashAreaCarLeftRear
	CrashAreaCarLeftFront
	CrashAreaCarTop
	CrashAreaCarUndercarriage
	CrashAreaMotorcycleFront
	CrashAreaMotorcycleRight
	CrashAreaMotorcycleRear
	CrashAreaMotorcycleLeft
	CrashAreaUnknown
	CrashAreaNotVehicle
)

// Cause is the contributing factor code (01-67) assigned by the police.
// The full code list lives in the police reporting manual; 43 and 67 mean
// the cause is unknown or not yet found.
type Cause int

const (
	CauseUnknown           Cause = 43
	CauseNoneForDriver     Cause = 44
	CauseNoneForNonDriver  Cause = 67
	CauseUseHandheldPhone  Cause = 41
	CauseDrunkDriving      Cause = 21
	CauseNotNoticeFront    Cause = 23
	CauseViolateSignal     Cause = 25
	CauseOverspeed         Cause = 13
	CauseIllegalOvertaking Cause = 1
)

// Job is the occupation code, following the sixth revision of the national
// occupation classification.
type Job int

const (
	JobAdministrator Job = iota + 1
	JobProfessional
	JobTechnician
	JobClericalSupport
	JobService
	JobSales
	JobFarmerOrFisher
	JobSecurity
	JobCraft
	JobProfessionalDriver
	JobMachineOperator
	JobElementaryLabourer
	JobUnderSchoolAge
	JobElementarySchool
	JobJuniorHighSchool
	JobSeniorHighSchool
	JobJuniorCollege
	JobUniversity
	JobHouseworker
	JobJobless
	JobOther
	JobUnknown
	JobPolice
)

// TravelPurpose of the trip.
type TravelPurpose int

const (
	TravelWork TravelPurpose = iota + 1
	TravelSchool
	TravelBusiness
	TravelTransport
	TravelCommute
	TravelTourism
	TravelShopping
	TravelOther
	TravelUnknown
)

// Citizenship of the party. The exports encode it as 0 (citizen) / 1.
type Citizenship int

const (
	Citizen Citizenship = iota + 1
	NonCitizen
)
