package authinfra

import (
	"context"
	"strconv"
	"time"

	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/logx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisAuditService publishes audit events to a Redis stream so they can be
// consumed out-of-process. Publishing is best-effort: a failed XADD is
// logged, never propagated to the request being audited.
type RedisAuditService struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisAuditService(client *redis.Client, stream string) *RedisAuditService {
	if stream == "" {
		stream = "vendia:auth:audit"
	}
	return &RedisAuditService{client: client, stream: stream, maxLen: 100_000}
}

func (s *RedisAuditService) Record(ctx context.Context, event auth.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{
			"id":       event.ID,
			"kind":     event.Kind,
			"username": event.Username,
			"success":  strconv.FormatBool(event.Success),
			"reason":   event.Reason,
			"at":       event.At.Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		logx.WithError(err).WithField("stream", s.stream).Warn("audit event dropped")
	}
}
