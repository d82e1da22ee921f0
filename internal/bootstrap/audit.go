package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational lifecycle events. Kept as an interface so
// deployments can route these to something other than stdout.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
