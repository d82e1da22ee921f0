package policy

// LeaveType enumerates the leave buckets recognised by company policy.
type LeaveType string

const (
	Earned            LeaveType = "EARNED"
	Casual            LeaveType = "CASUAL"
	Medical           LeaveType = "MEDICAL"
	Maternity         LeaveType = "MATERNITY"
	Paternity         LeaveType = "PATERNITY"
	Study             LeaveType = "STUDY"
	ExtraWithPay      LeaveType = "EXTRAWITHPAY"
	ExtraWithoutPay   LeaveType = "EXTRAWITHOUTPAY"
	SpecialDisability LeaveType = "SPECIAL_DISABILITY"
	Quarantine        LeaveType = "QUARANTINE"
	Special           LeaveType = "SPECIAL"
)

func IsKnownLeaveType(t LeaveType) bool {
	switch t {
	case Earned, Casual, Medical, Maternity, Paternity, Study,
		ExtraWithPay, ExtraWithoutPay, SpecialDisability, Quarantine, Special:
		return true
	}
	return false
}

// Policy thresholds. Fixed business policy, not runtime configuration.
const (
	// MedicalConversionThreshold is the maximum medical-leave span charged
	// entirely to the MEDICAL bucket (policy 6.21.c).
	MedicalConversionThreshold = 14

	// CasualConversionThreshold is the maximum casual-leave span charged
	// entirely to the CASUAL bucket (policy 6.20.d).
	CasualConversionThreshold = 3

	// EarnedBalanceCap is the maximum EARNED closing balance; accrual above
	// it transfers to SPECIAL (policy 6.8).
	EarnedBalanceCap = 60

	// MedicalCertificateDays is the medical-leave working-day span beyond
	// which a duty-return certificate must clear its own approval chain.
	MedicalCertificateDays = 7
)

// Policy references recorded on conversion components for audit.
const (
	RefMedicalConversion = "6.21.c"
	RefCasualConversion  = "6.20.d"
	RefEarnedOverflow    = "6.8"
)
