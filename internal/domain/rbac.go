package domain

// Approver roles. These are fixed by leave policy; the approval chain is
// built from them by position, so they are not tenant-configurable.
const (
	RoleEmployee = "EMPLOYEE"
	RoleHRAdmin  = "HR_ADMIN"
	RoleDeptHead = "DEPT_HEAD"
	RoleHRHead   = "HR_HEAD"
	RoleCEO      = "CEO"
)

func IsKnownRole(role string) bool {
	switch role {
	case RoleEmployee, RoleHRAdmin, RoleDeptHead, RoleHRHead, RoleCEO:
		return true
	}
	return false
}

type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
