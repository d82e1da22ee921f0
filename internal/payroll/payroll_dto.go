package payroll

type BuildPeriodRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type PayrollRowResponse struct {
	EmployeeID        string `json:"employee_id"`
	MonthlySalary     string `json:"monthly_salary"`
	LWPDays           int    `json:"lwp_days"`
	LWPDeduction      string `json:"lwp_deduction"`
	EncashmentDays    int    `json:"encashment_days"`
	EncashmentPayment string `json:"encashment_payment"`
}

type PeriodResponse struct {
	ID         string               `json:"id"`
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Status     string               `json:"status"`
	ComputedAt string               `json:"computed_at,omitempty"`
	Rows       []PayrollRowResponse `json:"rows,omitempty"`
}
