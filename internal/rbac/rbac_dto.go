package rbac

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type UpdateRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" binding:"required,dive,uuid"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

func mapPermissions(rows []PermissionRow) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, PermissionResponse{
			ID:       row.ID,
			Resource: row.Resource,
			Action:   row.Action,
			Label:    row.Label,
			Category: row.Category,
		})
	}
	return out
}
