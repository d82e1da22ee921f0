package leave

type CreateLeaveRequest struct {
	LeaveType      string `json:"leave_type" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	CertificateURL string `json:"certificate_url"`
}

type ResubmitLeaveRequest struct {
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	CertificateURL string `json:"certificate_url"`
}

type ConversionComponentResponse struct {
	LeaveType string `json:"leave_type"`
	Days      int    `json:"days"`
	PolicyRef string `json:"policy_ref,omitempty"`
}

type LeaveResponse struct {
	ID             string                        `json:"id"`
	RequesterID    string                        `json:"requester_id"`
	LeaveType      string                        `json:"leave_type"`
	StartDate      string                        `json:"start_date"`
	EndDate        string                        `json:"end_date"`
	WorkingDays    int                           `json:"working_days"`
	Reason         string                        `json:"reason"`
	Status         string                        `json:"status"`
	Cycle          int                           `json:"cycle"`
	CertificateURL *string                       `json:"certificate_url,omitempty"`
	ConversionPlan []ConversionComponentResponse `json:"conversion_plan,omitempty"`
}
