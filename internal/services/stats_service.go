package services

import (
	"context"
	"time"

	"riverbend/portal/internal/db/repositories"
)

type StatsService struct {
	stats *repositories.StatsRepository
}

func NewStatsService(stats *repositories.StatsRepository) *StatsService {
	return &StatsService{stats: stats}
}

func (s *StatsService) Dashboard(ctx context.Context) (*repositories.DashboardStats, error) {
	stats, err := s.stats.Dashboard(ctx, time.Now().UTC())
	if err != nil {
		return nil, Internal(err)
	}
	return stats, nil
}
