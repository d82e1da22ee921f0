package balance

type OpenBalanceRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	LeaveType string `json:"leave_type" binding:"required"`
	Year      int    `json:"year" binding:"required"`
	Opening   int    `json:"opening" binding:"gte=0"`
}

type AccrueRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	LeaveType string `json:"leave_type" binding:"required"`
	Year      int    `json:"year" binding:"required"`
	Days      int    `json:"days" binding:"required,gt=0"`
}

type BalanceResponse struct {
	UserID    string `json:"user_id"`
	LeaveType string `json:"leave_type"`
	Year      int    `json:"year"`
	Opening   int    `json:"opening"`
	Accrued   int    `json:"accrued"`
	Used      int    `json:"used"`
	Closing   int    `json:"closing"`
}

type AccrueResponse struct {
	Accrued         BalanceResponse  `json:"accrued"`
	SpecialTransfer *BalanceResponse `json:"special_transfer,omitempty"`
}
