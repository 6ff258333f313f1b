// Package model defines the accident Case and Party records rebuilt from the
// denormalized police exports, along with the closed code sets they use.
package model

import "time"

// TaipeiZone is the fixed zone every source timestamp is recorded in.
// Taiwan has not observed daylight saving time since 1979.
var TaipeiZone = time.FixedZone("Asia/Taipei", 8*60*60)

// UnknownDistrict replaces a blank second administrative level outside strict mode.
const UnknownDistrict = "未知區"

// GPS is a WGS84 coordinate pair.
type GPS struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Case is one recorded accident with one or more parties.
type Case struct {
	ID                        string    `json:"id"`
	Date                      time.Time `json:"date"`
	Location                  string    `json:"location"`
	FirstAdministrativeLevel  string    `json:"first_administrative_level"`
	SecondAdministrativeLevel string    `json:"second_administrative_level"`
	Severity                  Severity  `json:"severity"`

	// ProcessingCode is the source "處理別" code, nil for schemas without one.
	ProcessingCode *int `json:"processing_code,omitempty"`
	GPS            *GPS `json:"gps,omitempty"`

	DeathIn24Hours *int `json:"death_in_24_hours,omitempty"`
	DeathIn30Days  *int `json:"death_in_30_days,omitempty"`
	Injury         *int `json:"injury,omitempty"`

	Weather             *Weather             `json:"weather,omitempty"`
	Light               *Light               `json:"light,omitempty"`
	RoadHierarchy       *RoadHierarchy       `json:"road_hierarchy,omitempty"`
	SpeedLimit          *int                 `json:"speed_limit,omitempty"`
	RoadGeometry        *RoadGeometry        `json:"road_geometry,omitempty"`
	Position            *Position            `json:"position,omitempty"`
	RoadMaterial        *RoadMaterial        `json:"road_material,omitempty"`
	RoadSurfaceWet      *RoadSurfaceWet      `json:"road_surface_wet,omitempty"`
	RoadSurfaceDefect   *RoadSurfaceDefect   `json:"road_surface_defect,omitempty"`
	Obstacle            *Obstacle            `json:"obstacle,omitempty"`
	SightDistance       *SightDistance       `json:"sight_distance,omitempty"`
	TrafficSignal       *TrafficSignal       `json:"traffic_signal,omitempty"`
	TrafficSignalStatus *TrafficSignalStatus `json:"traffic_signal_status,omitempty"`
	DirectionDivider    *DirectionDivider    `json:"direction_divider,omitempty"`
	NormalLaneDivider   *NormalLaneDivider   `json:"normal_lane_divider,omitempty"`
	FastSlowLaneDivider *FastSlowLaneDivider `json:"fast_slow_lane_divider,omitempty"`
	EdgeLine            *EdgeLine            `json:"edge_line,omitempty"`
	CrashType           *CrashType           `json:"crash_type,omitempty"`

	// Parties are kept in arrival order, which is not necessarily Order.
	Parties []Party `json:"parties"`
}

// RederiveSeverity recomputes the severity from the stored counts and
// processing code.
func (c *Case) RederiveSeverity() (Severity, error) {
	return DeriveSeverity(c.DeathIn24Hours, c.DeathIn30Days, c.Injury, c.ProcessingCode)
}

// Weather at the time of the accident.
type Weather int

const (
	WeatherStorm Weather = iota + 1
	WeatherStrongWind
	WeatherSandWind
	WeatherSmoke
	WeatherSnow
	WeatherRain
	WeatherCloudy
	WeatherSunny
)

// Light condition.
type Light int

const (
	LightDaytime Light = iota + 1
	LightSunriseSunset
	LightNightLighting
	LightNightDark
)

// RoadHierarchy is the administrative class of the road.
type RoadHierarchy int

const (
	RoadFreeway RoadHierarchy = iota + 1
	RoadProvincial
	RoadCounty
	RoadCountry
	RoadCity
	RoadVillage
	RoadExcluded
	RoadOther
)

// RoadGeometry describes the road layout at the accident point.
type RoadGeometry int

const (
	GeometryOpenLevelCrossing RoadGeometry = iota + 1
	GeometryBarrierLevelCrossing
	GeometryThreeWayIntersection
	GeometryCrossIntersection
	GeometryMultiwayIntersection
	GeometryTunnel
	GeometryUnderpass
	GeometryBridge
	GeometryCulvert
	GeometryViaduct
	GeometryCurve
	GeometrySlope
	GeometryAlley
	GeometryStraight
	GeometryOther
	GeometryRoundabout
	GeometrySquare
)

// Position is where on the road the accident happened.
type Position int

const (
	PositionIntersection Position = iota + 1
	PositionNearbyIntersection
	PositionHookTurnArea
	PositionBikeStopArea
	PositionTrafficIsland
	PositionUTurn
	PositionFastLane
	PositionSlowLane
	PositionNormalLane
	PositionBusLane
	PositionMotorcycleLane
	PositionMotorcycleFirstLane
	PositionRoadShoulder
	PositionAccelerationLane
	PositionDecelerationLane
	PositionStraightRamp
	PositionBendRamp
	PositionPedestrianCrossing
	PositionNearbyPedestrianCrossing
	PositionSidewalk
	PositionTollgate
	PositionOther
)

// RoadMaterial is the pavement type.
type RoadMaterial int

const (
	MaterialAsphalt RoadMaterial = iota + 1
	MaterialConcrete
	MaterialGravel
	MaterialOther
	MaterialNone
)

// RoadSurfaceWet is the surface condition.
type RoadSurfaceWet int

const (
	SurfaceSnow RoadSurfaceWet = iota + 1
	SurfaceOil
	SurfaceMud
	SurfaceWet
	SurfaceDry
)

// RoadSurfaceDefect is a defect in the pavement.
type RoadSurfaceDefect int

const (
	DefectSoft RoadSurfaceDefect = iota + 1
	DefectCorrugation
	DefectHole
	DefectNone
)

// Obstacle on the road.
type Obstacle int

const (
	ObstacleUnderConstruction Obstacle = iota + 1
	ObstacleStuff
	ObstacleParking
	ObstacleOther
	ObstacleNone
)

// SightDistance is what limited the view, if anything.
type SightDistance int

const (
	SightBend SightDistance = iota + 1
	SightSlope
	SightBuilding
	SightPlant
	SightParking
	SightOther
	SightGood
)

// TrafficSignal is the signal type present.
type TrafficSignal int

const (
	SignalNormal TrafficSignal = iota + 1
	SignalNormalWithPedestrian
	SignalFlash
	SignalNone
)

// TrafficSignalStatus is whether the signal was working.
type TrafficSignalStatus int

const (
	SignalStatusNormal TrafficSignalStatus = iota + 1
	SignalStatusUnusual
	SignalStatusNoAction
	SignalStatusNoTrafficLight
)

// DirectionDivider separates opposite directions.
type DirectionDivider int

const (
	DirectionWideIsland DirectionDivider = iota + 1 // 50 cm and above
	DirectionNarrowIslandWithBarrier
	DirectionNarrowIslandWithoutBarrier
	DirectionDoubleYellowWithMark
	DirectionDoubleYellowWithoutMark
	DirectionSolidBrokenYellowWithMark
	DirectionSolidBrokenYellowWithoutMark
	DirectionBrokenYellowWithMark
	DirectionBrokenYellowWithoutMark
	DirectionNone
)

// NormalLaneDivider separates lanes in the same direction.
type NormalLaneDivider int

const (
	LaneDoubleWhiteWithMark NormalLaneDivider = iota + 1
	LaneDoubleWhiteWithoutMark
	LaneBrokenWhiteWithMark
	LaneBrokenWhiteWithoutMark
	LaneNone
)

// FastSlowLaneDivider separates fast and slow lanes.
type FastSlowLaneDivider int

const (
	FastSlowWideIsland FastSlowLaneDivider = iota + 1 // 50 cm and above
	FastSlowNarrowIslandWithBarrier
	FastSlowNarrowIslandWithoutBarrier
	FastSlowLaneLine
	FastSlowNone
)

// EdgeLine is whether the road edge is marked.
type EdgeLine int

const (
	EdgeLinePresent EdgeLine = iota + 1
	EdgeLineNone
)

// CrashType classifies the collision.
type CrashType int

const (
	CrashWalkInverseDirection CrashType = iota + 1
	CrashWalkSameDirection
	CrashCrossingRoad
	CrashPlayingOnRoad
	CrashWorkingOnRoad
	CrashRunningIntoRoad
	CrashEmergingBehindCars
	CrashStandingOutsideRoad
	CrashOtherHumanAndVehicle
	CrashHeadOn
	CrashOppositeDirectionSideswipe
	CrashSameDirectionSideswipe
	CrashRearEnd
	CrashInReverse
	CrashCrossTraffic
	CrashSideImpact
	CrashOtherVehicleAndVehicle
	CrashRollOverOrSlide
	CrashRushOutOfRoad
	CrashBarrierImpact
	CrashTrafficLightImpact
	CrashTollgateImpact
	CrashIslandImpact
	CrashUnfixedFacilityImpact
	CrashBridgeBuildingImpact
	CrashTreeUtilityPoleImpact
	CrashAnimalImpact
	CrashConstructionFacilityImpact
	CrashOtherSingleVehicle
	CrashLevelCrossingBarrierImpact
	CrashCrossingLevelCrossing
	CrashStopWrongPosition
	CrashStuckInLevelCrossing
	CrashOtherLevelCrossing
)
