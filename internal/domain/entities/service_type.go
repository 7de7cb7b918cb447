package entities

// ServiceType is the kind of work a partner asks for.
type ServiceType string

const (
	ServiceTypePaint      ServiceType = "paint"
	ServiceTypeTires      ServiceType = "tires"
	ServiceTypeMechanics  ServiceType = "mechanics"
	ServiceTypeCare       ServiceType = "care"
	ServiceTypeInspection ServiceType = "inspection"
	ServiceTypeInsurance  ServiceType = "insurance"
	ServiceTypeGlass      ServiceType = "glass"
	ServiceTypeAirCon     ServiceType = "aircon"
	ServiceTypeDent       ServiceType = "dent"
	ServiceTypeWrap       ServiceType = "wrap"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceTypePaint, ServiceTypeTires, ServiceTypeMechanics, ServiceTypeCare,
		ServiceTypeInspection, ServiceTypeInsurance, ServiceTypeGlass, ServiceTypeAirCon,
		ServiceTypeDent, ServiceTypeWrap:
		return true
	}
	return false
}
