package model

// VehicleCategory groups vehicle codes for reporting.
type VehicleCategory string

const (
	CategoryBus          VehicleCategory = "大客車"
	CategoryHeavyTruck   VehicleCategory = "大貨車"
	CategoryCar          VehicleCategory = "小客車"
	CategoryPickupTruck  VehicleCategory = "小貨車"
	CategoryMotorcycle   VehicleCategory = "機車"
	CategoryBicycle      VehicleCategory = "自行車"
	CategoryPedestrian   VehicleCategory = "行人"
	CategoryOtherVehicle VehicleCategory = "其他車"
	CategoryOtherPeople  VehicleCategory = "其他人"
	CategoryOther        VehicleCategory = "其他"
)

// Vehicle is an entry of the fixed vehicle code table.
type Vehicle struct {
	Code     string          `json:"code"`
	Category VehicleCategory `json:"category"`
}

// VehicleUsage is the declared special usage of the vehicle.
type VehicleUsage int

const (
	UsageGravelTruck VehicleUsage = iota + 1
	UsageChildrenVehicle
	UsageSchoolBus
	UsageDisabledSpecialVehicle
	UsageCoachVehicle
	UsageDangerousGoods
	UsageOther
	UsageNotDriver
)

// OtherVehicle is used when the export leaves the vehicle code blank.
var OtherVehicle = Vehicle{Code: "", Category: CategoryOther}

var vehicleCategories = map[string]VehicleCategory{
	"A01": CategoryBus, // public city bus
	"A02": CategoryBus, // private city bus
	"A03": CategoryBus, // public highway bus
	"A04": CategoryBus, // private highway bus
	"A05": CategoryBus, // tour bus
	"A06": CategoryBus, // personal bus
	"A11": CategoryHeavyTruck,
	"A12": CategoryHeavyTruck,
	"A21": CategoryHeavyTruck, // full trailer
	"A22": CategoryHeavyTruck,
	"A31": CategoryHeavyTruck, // semi trailer
	"A32": CategoryHeavyTruck,
	"A41": CategoryHeavyTruck, // tractor
	"A42": CategoryHeavyTruck,
	"B01": CategoryCar, // taxi
	"B02": CategoryCar, // rental
	"B03": CategoryCar,
	"B11": CategoryPickupTruck,
	"B12": CategoryPickupTruck,
	"C01": CategoryMotorcycle, // 550cc and up
	"C02": CategoryMotorcycle, // 250-549cc
	"C03": CategoryMotorcycle, // 50-249cc
	"C04": CategoryMotorcycle, // 49cc and under
	"C05": CategoryMotorcycle, // 45 km/h and under
	"D01": CategoryOtherVehicle, // military
	"D02": CategoryOtherVehicle,
	"D03": CategoryOtherVehicle,
	"E01": CategoryOtherVehicle, // ambulance
	"E02": CategoryOtherVehicle, // fire engine
	"E03": CategoryOtherVehicle, // police
	"E04": CategoryOtherVehicle, // engineering
	"E05": CategoryOtherVehicle,
	"F01": CategoryBicycle,
	"F02": CategoryBicycle, // pedelec
	"F03": CategoryBicycle,
	"F04": CategoryOtherVehicle, // rickshaw
	"F05": CategoryOtherVehicle, // animal drawn
	"F06": CategoryOtherVehicle,
	"G01": CategoryOtherVehicle,
	"G02": CategoryOtherVehicle, // agricultural machinery
	"G03": CategoryOtherVehicle,
	"G04": CategoryOtherVehicle, // trailer
	"G05": CategoryOtherVehicle, // train
	"G06": CategoryOtherVehicle,
	"H01": CategoryPedestrian,
	"H02": CategoryOtherPeople, // passenger
	"H03": CategoryOtherPeople,
}

// LookupVehicle resolves a vehicle code. An empty code maps to OtherVehicle.
func LookupVehicle(code string) (Vehicle, bool) {
	if code == "" {
		return OtherVehicle, true
	}
	cat, ok := vehicleCategories[code]
	if !ok {
		return Vehicle{}, false
	}
	return Vehicle{Code: code, Category: cat}, true
}
