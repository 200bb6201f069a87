package authinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/logx"
	"github.com/google/uuid"
)

// LogxAuditService implements auth.AuditService with structured logging.
// It is the default sink when no Redis is configured.
type LogxAuditService struct{}

func NewLogxAuditService() *LogxAuditService { return &LogxAuditService{} }

func (s *LogxAuditService) Record(_ context.Context, event auth.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	logx.WithFields(logx.Fields{
		"audit_id":    event.ID,
		"audit_event": event.Kind,
		"username":    event.Username,
		"success":     event.Success,
		"reason":      event.Reason,
		"at":          event.At.Format(time.RFC3339),
	}).Info("audit: " + event.Kind)
}
