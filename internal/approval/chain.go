package approval

import (
	"go-lms/internal/domain"
	"go-lms/internal/policy"
)

// Decision values recorded on approval rows. A step is created PENDING and
// decided in place; CANCEL and RECALL rows are appended already decided.
const (
	DecisionPending   = "PENDING"
	DecisionApproved  = "APPROVED"
	DecisionRejected  = "REJECTED"
	DecisionReturned  = "RETURNED"
	DecisionForwarded = "FORWARDED"
	DecisionCancel    = "CANCEL"
	DecisionRecall    = "RECALL"
)

// Chain returns the ordered roles that must approve a request of the given
// type. The baseline chain ends at HR Head; STUDY, MATERNITY and PATERNITY
// additionally require the CEO.
func Chain(leaveType policy.LeaveType) []string {
	chain := []string{domain.RoleHRAdmin, domain.RoleDeptHead, domain.RoleHRHead}
	switch leaveType {
	case policy.Study, policy.Maternity, policy.Paternity:
		chain = append(chain, domain.RoleCEO)
	}
	return chain
}

// CertificateChain is the fixed mini-chain gating duty return after a long
// medical leave. It is independent of the leave's own approval chain.
func CertificateChain() []string {
	return []string{domain.RoleHRAdmin, domain.RoleHRHead, domain.RoleCEO}
}

// IsFinalPos reports whether base-chain position pos is the last one for
// the given leave type.
func IsFinalPos(leaveType policy.LeaveType, pos int) bool {
	return pos >= len(Chain(leaveType))-1
}
