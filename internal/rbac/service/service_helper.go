package service

import (
	"context"
	"time"

	"crmrbac/internal/rbac/model"

	"github.com/google/uuid"
)

// recordAudit writes an audit sink entry off the request path. Audit
// failures are logged, never surfaced to the caller.
func (s *Service) recordAudit(action, entity, entityID, performedBy string, before, after any) {
	entry := &model.AuditEntry{
		ID:          uuid.NewString(),
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		PerformedBy: performedBy,
		Before:      before,
		After:       after,
		CreatedAt:   time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Audit.CreateAuditEntry(ctx, entry); err != nil {
			s.logger.Warn("audit write failed", "action", action, "entity", entity, "error", err)
		}
	}()
}
