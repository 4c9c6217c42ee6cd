package leave

// Leave type codes. SICK and VAC carry balance tracking; the other codes are
// recorded without a balance. Anything outside this set is a configuration
// error and is rejected loudly.
const (
	TypeSick        = "SICK"
	TypeVacation    = "VAC"
	TypeUnpaid      = "UNPAID"
	TypeMaternity   = "MATERNITY"
	TypeBereavement = "BEREAVEMENT"
)

func IsKnownLeaveType(code string) bool {
	switch code {
	case TypeSick, TypeVacation, TypeUnpaid, TypeMaternity, TypeBereavement:
		return true
	default:
		return false
	}
}

// VacationTier maps whole years of employment to an annual vacation-day
// allotment. Tiers are matched highest-first: an employee with 6 years of
// service gets the 5-year tier.
type VacationTier struct {
	Years float64
	Days  float64
}

// EntitlementPolicy is passed explicitly into the balance engine so tests and
// tenants can override it without shared mutable state.
type EntitlementPolicy struct {
	SickDaysPerYear    float64
	MinSickServiceDays int
	VacationTiers      []VacationTier // ascending by Years
}

func DefaultEntitlementPolicy() EntitlementPolicy {
	return EntitlementPolicy{
		SickDaysPerYear:    5.0,
		MinSickServiceDays: 90,
		VacationTiers: []VacationTier{
			{Years: 1, Days: 10},
			{Years: 5, Days: 15},
		},
	}
}

// VacationEntitlement returns the allotment of the highest tier whose
// threshold is at or below yearsEmployed; zero below the lowest tier.
func (p EntitlementPolicy) VacationEntitlement(yearsEmployed float64) float64 {
	var entitlement float64
	for _, tier := range p.VacationTiers {
		if yearsEmployed >= tier.Years {
			entitlement = tier.Days
		}
	}
	return entitlement
}
