package leave

import (
	"context"
	"fmt"
	"time"

	leaveerrors "go-hrpay/internal/leave/errors"

	"github.com/shopspring/decimal"
)

// ServiceDates carries the employment dates the balance rules key off.
// SeniorityStartDate wins over HireDate when both are set (rehires keep
// their original seniority).
type ServiceDates struct {
	HireDate           *time.Time
	SeniorityStartDate *time.Time
}

func (d ServiceDates) EffectiveStart() *time.Time {
	if d.SeniorityStartDate != nil {
		return d.SeniorityStartDate
	}
	return d.HireDate
}

// Window is the inclusive date span over which taken days are summed for one
// leave type.
type Window struct {
	Start time.Time
	End   time.Time
}

// SickWindow is the calendar year containing asOf.
func SickWindow(asOf time.Time) Window {
	return Window{
		Start: time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location()),
		End:   time.Date(asOf.Year(), time.December, 31, 0, 0, 0, 0, asOf.Location()),
	}
}

// VacationWindow is the employment-anniversary year containing asOf: it opens
// on the most recent anniversary of hireDate at or before asOf and closes the
// day before the next one.
func VacationWindow(hireDate, asOf time.Time) Window {
	start := anniversaryInYear(hireDate, asOf.Year())
	if start.After(asOf) {
		start = anniversaryInYear(hireDate, asOf.Year()-1)
	}
	end := anniversaryInYear(hireDate, start.Year()+1).AddDate(0, 0, -1)
	return Window{Start: start, End: end}
}

// anniversaryInYear projects hireDate's month/day into year. Feb-29 hire
// dates fall back to Feb-28 on non-leap years; this matches the entitlement
// dates employees already have, so it stays even though it is not "correct"
// leap-year arithmetic.
func anniversaryInYear(hireDate time.Time, year int) time.Time {
	month, dayOfMonth := hireDate.Month(), hireDate.Day()
	if month == time.February && dayOfMonth == 29 && !isLeapYear(year) {
		dayOfMonth = 28
	}
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, hireDate.Location())
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// YearsEmployed converts a service span into fractional years.
func YearsEmployed(start, asOf time.Time) float64 {
	return asOf.Sub(start).Hours() / 24 / 365.25
}

// History is the leave-record aggregation the engine depends on. The
// repository implements it; tests use fakes.
type History interface {
	// SumActiveDays totals days of the given type whose leave starts inside
	// [start, end], excluding cancelled and rejected records.
	SumActiveDays(ctx context.Context, companyID, employeeID, leaveType string, start, end time.Time) (float64, error)
	// HasOverlap reports whether any non-cancelled leave of the employee
	// overlaps [start, end]. excludeID skips one record (updates).
	HasOverlap(ctx context.Context, companyID, employeeID string, start, end time.Time, excludeID *string) (bool, error)
}

// BalanceResult is the outcome of an approval check. Reason is shown to the
// requester verbatim on rejection.
type BalanceResult struct {
	OK        bool    `json:"ok"`
	Reason    string  `json:"reason"`
	Remaining float64 `json:"remaining"`
}

// BalanceEngine computes sick/vacation balances and gates leave approval.
// It is a pure calculator over the injected history; it persists nothing.
type BalanceEngine struct {
	policy  EntitlementPolicy
	history History
}

func NewBalanceEngine(policy EntitlementPolicy, history History) *BalanceEngine {
	return &BalanceEngine{policy: policy, history: history}
}

// SickRemaining returns the sick days left in the calendar year of asOf.
// Employees with fewer than the policy's minimum service days have no sick
// balance at all.
func (e *BalanceEngine) SickRemaining(ctx context.Context, companyID, employeeID string, dates ServiceDates, asOf time.Time) (float64, error) {
	start := dates.EffectiveStart()
	if start == nil || daysBetween(*start, asOf) < e.policy.MinSickServiceDays {
		return 0, nil
	}

	window := SickWindow(asOf)
	taken, err := e.history.SumActiveDays(ctx, companyID, employeeID, TypeSick, window.Start, window.End)
	if err != nil {
		return 0, err
	}
	return remainingDays(e.policy.SickDaysPerYear, taken), nil
}

// VacationRemaining returns the vacation days left in the current
// anniversary window.
func (e *BalanceEngine) VacationRemaining(ctx context.Context, companyID, employeeID string, dates ServiceDates, asOf time.Time) (float64, error) {
	start := dates.EffectiveStart()
	if start == nil {
		return 0, nil
	}

	entitlement := e.policy.VacationEntitlement(YearsEmployed(*start, asOf))
	if entitlement == 0 {
		return 0, nil
	}

	window := VacationWindow(*start, asOf)
	taken, err := e.history.SumActiveDays(ctx, companyID, employeeID, TypeVacation, window.Start, window.End)
	if err != nil {
		return 0, err
	}
	return remainingDays(entitlement, taken), nil
}

// ApprovalRequest is one proposed leave to be gated.
type ApprovalRequest struct {
	CompanyID      string
	EmployeeID     string
	LeaveType      string
	StartDate      time.Time
	EndDate        time.Time
	Days           float64
	Dates          ServiceDates
	AsOf           time.Time
	ExcludeLeaveID *string
}

// CanApprove decides whether the proposed leave may be approved. Rejections
// come back as a BalanceResult with OK=false, not as an error; errors are
// reserved for lookup failures and unknown leave type codes.
func (e *BalanceEngine) CanApprove(ctx context.Context, req ApprovalRequest) (BalanceResult, error) {
	if !IsKnownLeaveType(req.LeaveType) {
		return BalanceResult{}, leaveerrors.ErrUnknownLeaveType
	}

	overlap, err := e.history.HasOverlap(ctx, req.CompanyID, req.EmployeeID, req.StartDate, req.EndDate, req.ExcludeLeaveID)
	if err != nil {
		return BalanceResult{}, err
	}
	if overlap {
		return BalanceResult{Reason: "Overlaps an existing leave."}, nil
	}

	switch req.LeaveType {
	case TypeSick:
		start := req.Dates.EffectiveStart()
		if start == nil || daysBetween(*start, req.AsOf) < e.policy.MinSickServiceDays {
			return BalanceResult{Reason: fmt.Sprintf("Not eligible for sick leave before %d days of service.", e.policy.MinSickServiceDays)}, nil
		}
		remaining, err := e.SickRemaining(ctx, req.CompanyID, req.EmployeeID, req.Dates, req.AsOf)
		if err != nil {
			return BalanceResult{}, err
		}
		return balanceDecision("Sick", remaining, req.Days), nil

	case TypeVacation:
		remaining, err := e.VacationRemaining(ctx, req.CompanyID, req.EmployeeID, req.Dates, req.AsOf)
		if err != nil {
			return BalanceResult{}, err
		}
		return balanceDecision("Vacation", remaining, req.Days), nil

	default:
		return BalanceResult{OK: true, Reason: "OK (no balance check)"}, nil
	}
}

func balanceDecision(label string, remaining, requested float64) BalanceResult {
	if requested > remaining {
		return BalanceResult{
			Reason:    fmt.Sprintf("Insufficient %s balance. Remaining %s day(s).", label, formatDays(remaining)),
			Remaining: remaining,
		}
	}
	return BalanceResult{
		OK:        true,
		Reason:    "OK",
		Remaining: roundDays(remaining - requested),
	}
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func remainingDays(entitlement, taken float64) float64 {
	remaining := roundDays(entitlement - taken)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// roundDays keeps balances at two decimals; decimal arithmetic avoids binary
// float artifacts like 4.499999999.
func roundDays(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func formatDays(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
