package encashment

type CreateEncashmentRequest struct {
	Year int `json:"year" binding:"required,min=2000,max=2100"`
	Days int `json:"days" binding:"required,min=1"`
}

type RejectEncashmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type EncashmentResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	Year             int     `json:"year"`
	DaysRequested    int     `json:"days_requested"`
	BalanceAtRequest int     `json:"balance_at_request"`
	Status           string  `json:"status"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	PaidAt           *string `json:"paid_at,omitempty"`
}
