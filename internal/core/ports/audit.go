package ports

import (
	"context"

	"github.com/userhub/user-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous persistence.
type AuditSink interface {
	Record(event domain.AuditEvent)
}
