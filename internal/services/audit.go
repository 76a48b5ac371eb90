package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/db"
	"github.com/soaringjerry/Candor/internal/logging"
	"github.com/soaringjerry/Candor/internal/models"
)

type AuditLog interface {
	AddAudit(ctx context.Context, e db.AuditEntry) error
}

// audit records an action. Failures are logged and never reach the caller.
func audit(ctx context.Context, log AuditLog, actor, action, target, note string) {
	if log == nil {
		return
	}
	if err := log.AddAudit(ctx, db.AuditEntry{Actor: actor, Action: action, Target: target, Note: note}); err != nil {
		logging.FromContext(ctx).Warn(ctx, "audit write failed",
			zap.String("action", action),
			zap.String("target", target),
			zap.Error(err),
		)
	}
}

type AuditReader interface {
	ListAudit(ctx context.Context, limit int) ([]db.AuditEntry, error)
}

// AuditService exposes the local audit trail to admins.
type AuditService struct {
	reader AuditReader
}

func NewAuditService(r AuditReader) *AuditService {
	return &AuditService{reader: r}
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Recent returns the newest entries first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]db.AuditEntry, error) {
	if _, err := requireSession(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.reader.ListAudit(ctx, limit)
}
