package approval

type DecideRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED RETURNED FORWARDED CANCEL"`
	Comment  string `json:"comment"`
	ToRole   string `json:"to_role"`
}

type RecallRequest struct {
	EffectiveDate string `json:"effective_date" binding:"required"`
	Comment       string `json:"comment"`
}

type SubmitCertificateRequest struct {
	CertificateURL string `json:"certificate_url" binding:"required"`
}

type DecideCertificateRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Comment  string `json:"comment"`
}

type ApprovalResponse struct {
	ID         string  `json:"id"`
	LeaveID    string  `json:"leave_id"`
	Kind       string  `json:"kind"`
	Cycle      int     `json:"cycle"`
	Step       int     `json:"step"`
	Role       string  `json:"role"`
	ApproverID *string `json:"approver_id,omitempty"`
	Decision   string  `json:"decision"`
	Comment    string  `json:"comment,omitempty"`
	ToRole     *string `json:"to_role,omitempty"`
	DecidedAt  *string `json:"decided_at,omitempty"`
}

type DecisionResponse struct {
	LeaveID     string  `json:"leave_id"`
	LeaveStatus string  `json:"leave_status"`
	Decision    string  `json:"decision"`
	NextRole    *string `json:"next_role,omitempty"`
}

type CertificateResponse struct {
	ID             string `json:"id"`
	LeaveID        string `json:"leave_id"`
	Attempt        int    `json:"attempt"`
	CertificateURL string `json:"certificate_url"`
	Status         string `json:"status"`
}
