package employee

type CreateEmployeeRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Role          string `json:"role" binding:"required,oneof=EMPLOYEE HR_ADMIN DEPT_HEAD HR_HEAD CEO"`
	Department    string `json:"department"`
	MonthlySalary string `json:"monthly_salary"`
	JoinedAt      string `json:"joined_at"`
}

type UpdateEmployeeRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Role          string `json:"role" binding:"required,oneof=EMPLOYEE HR_ADMIN DEPT_HEAD HR_HEAD CEO"`
	Department    string `json:"department"`
	MonthlySalary string `json:"monthly_salary"`
}

type EmployeeResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Department    string `json:"department,omitempty"`
	MonthlySalary string `json:"monthly_salary"`
	JoinedAt      string `json:"joined_at,omitempty"`
}
