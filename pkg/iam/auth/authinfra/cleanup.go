package authinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/vendia/pkg/iam/user"
	"github.com/Abraxas-365/vendia/pkg/logx"
)

// CleanupService periodically nulls out expired refresh tokens. Expired
// tokens are already rejected at refresh time; the sweep keeps the table
// from accumulating dead credentials.
type CleanupService struct {
	users    user.Repository
	interval time.Duration
}

func NewCleanupService(users user.Repository, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupService{users: users, interval: interval}
}

// Start runs the sweep loop until ctx is canceled.
func (s *CleanupService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *CleanupService) sweep(ctx context.Context) {
	n, err := s.users.ClearExpiredTokens(ctx, time.Now())
	if err != nil {
		logx.WithError(err).Warn("refresh token cleanup failed")
		return
	}
	if n > 0 {
		logx.WithField("cleared", n).Info("expired refresh tokens cleared")
	}
}
