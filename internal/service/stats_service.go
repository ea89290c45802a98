package service

import (
	"context"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
	"github.com/memoria-app/memoria-backend/internal/repository"
)

// StatsStore provides the aggregated platform counters.
type StatsStore interface {
	GetPlatformStats(ctx context.Context) (*repository.PlatformStats, error)
}

// StatsService exposes the admin dashboard numbers.
type StatsService struct {
	stats StatsStore
}

// NewStatsService creates the stats service.
func NewStatsService(stats StatsStore) *StatsService {
	return &StatsService{stats: stats}
}

// GetPlatformStats returns the platform counters, admins only.
func (s *StatsService) GetPlatformStats(ctx context.Context, role string) (*repository.PlatformStats, error) {
	if role != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return s.stats.GetPlatformStats(ctx)
}
