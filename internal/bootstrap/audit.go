package bootstrap

import "context"

// AuditLog adalah catatan kejadian operasional (startup, shutdown, dsb).
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
