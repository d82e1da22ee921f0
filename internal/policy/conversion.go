package policy

import (
	"net/http"

	"go-lms/internal/shared/apperror"
)

var (
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrNonPositiveDays = apperror.New(
		apperror.CodeInvalidInput,
		"working days must be positive",
		http.StatusBadRequest,
	)
	// ErrConservationViolation signals a bug in the conversion rules, not a
	// caller mistake: component days no longer sum to the requested days.
	ErrConservationViolation = apperror.New(
		apperror.CodeInternalError,
		"conversion plan does not conserve requested days",
		http.StatusInternalServerError,
	)
)

// Component is one slice of a conversion plan: days charged to one bucket.
type Component struct {
	Type      LeaveType `json:"type"`
	Days      int       `json:"days"`
	PolicyRef string    `json:"policy_ref,omitempty"`
}

// Plan is the ordered breakdown of a leave request across balance buckets.
type Plan struct {
	Original   LeaveType   `json:"original"`
	TotalDays  int         `json:"total_days"`
	Components []Component `json:"components"`
}

// Converted reports whether the plan charges more than the original bucket.
func (p Plan) Converted() bool {
	return len(p.Components) > 1
}

// Balances exposes the current closing balances the planner may consult.
// It is read-only here: sufficiency is enforced at reservation time by the
// ledger, never during planning.
type Balances interface {
	Closing(t LeaveType) int
}

// BalanceMap is the plain-map Balances used by services and tests.
type BalanceMap map[LeaveType]int

func (m BalanceMap) Closing(t LeaveType) int { return m[t] }

// Convert computes the conversion breakdown for a leave request.
//
// MEDICAL beyond 14 working days: first 14 to MEDICAL, then up to the
// EARNED closing balance to EARNED, the rest to SPECIAL. CASUAL beyond 3
// working days: first 3 to CASUAL, the remainder to EARNED. Every other
// type is charged whole to its own bucket.
//
// The plan always conserves the requested days even when fallback balances
// are short; the ledger rejects the reservation later if days are missing.
func Convert(leaveType LeaveType, workingDays int, balances Balances) (Plan, error) {
	if !IsKnownLeaveType(leaveType) {
		return Plan{}, ErrUnknownLeaveType
	}
	if workingDays <= 0 {
		return Plan{}, ErrNonPositiveDays
	}
	if balances == nil {
		balances = BalanceMap(nil)
	}

	plan := Plan{Original: leaveType, TotalDays: workingDays}

	switch {
	case leaveType == Medical && workingDays > MedicalConversionThreshold:
		overflow := workingDays - MedicalConversionThreshold
		plan.Components = append(plan.Components, Component{
			Type:      Medical,
			Days:      MedicalConversionThreshold,
			PolicyRef: RefMedicalConversion,
		})

		earnedShare := min(overflow, balances.Closing(Earned))
		if earnedShare > 0 {
			plan.Components = append(plan.Components, Component{
				Type:      Earned,
				Days:      earnedShare,
				PolicyRef: RefMedicalConversion,
			})
		}
		if rest := overflow - earnedShare; rest > 0 {
			plan.Components = append(plan.Components, Component{
				Type:      Special,
				Days:      rest,
				PolicyRef: RefMedicalConversion,
			})
		}

	case leaveType == Casual && workingDays > CasualConversionThreshold:
		plan.Components = []Component{
			{Type: Casual, Days: CasualConversionThreshold, PolicyRef: RefCasualConversion},
			{Type: Earned, Days: workingDays - CasualConversionThreshold, PolicyRef: RefCasualConversion},
		}

	default:
		plan.Components = []Component{{Type: leaveType, Days: workingDays}}
	}

	if err := checkConservation(plan); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// ApplyEarnedCap splits an EARNED accrual so the closing balance never
// exceeds the 60-day cap; the excess transfers to SPECIAL. This fires at
// accrual time only. Request-time conversions never move accrued balance.
func ApplyEarnedCap(currentClosing, accrualDays int) (earnedDays, specialTransfer int) {
	if accrualDays <= 0 {
		return accrualDays, 0
	}
	room := EarnedBalanceCap - currentClosing
	if room < 0 {
		room = 0
	}
	if accrualDays <= room {
		return accrualDays, 0
	}
	return room, accrualDays - room
}

// RequiresCertificateChain reports whether a medical leave of the given
// working-day span gates duty return behind the certificate approval chain.
func RequiresCertificateChain(leaveType LeaveType, workingDays int) bool {
	return leaveType == Medical && workingDays > MedicalCertificateDays
}

func checkConservation(plan Plan) error {
	sum := 0
	for _, c := range plan.Components {
		sum += c.Days
	}
	if sum != plan.TotalDays {
		return ErrConservationViolation
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
