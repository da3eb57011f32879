package constants

import "strings"

// Fixed municipal department taxonomy. Grievances may only reference one of
// these at creation and update time.
const (
	DepartmentWaterWorks   = "Water-Works"
	DepartmentRoadways     = "Roadways"
	DepartmentElectricity  = "Electricity"
	DepartmentSanitation   = "Sanitation"
	DepartmentStreetLights = "Street-Lights"
	DepartmentDrainage     = "Drainage"
)

func AllDepartments() []string {
	return []string{
		DepartmentWaterWorks,
		DepartmentRoadways,
		DepartmentElectricity,
		DepartmentSanitation,
		DepartmentStreetLights,
		DepartmentDrainage,
	}
}

func IsValidDepartment(department string) bool {
	for _, d := range AllDepartments() {
		if d == department {
			return true
		}
	}
	return false
}

// DepartmentList is used in validation error messages.
func DepartmentList() string {
	return strings.Join(AllDepartments(), ", ")
}
