package service

import (
	"context"
	"fmt"

	"github.com/alayatales/temple-api/internal/core/domain"
	"github.com/alayatales/temple-api/internal/core/ports"
)

const topLocations = 5

type StatsService struct {
	temples ports.TempleRepository
	users   ports.UserRepository
}

func NewStatsService(temples ports.TempleRepository, users ports.UserRepository) *StatsService {
	return &StatsService{temples: temples, users: users}
}

// Stats counts temples and users and lists the locations with most temples.
func (s *StatsService) Stats(ctx context.Context) (*domain.Stats, error) {
	totalTemples, err := s.temples.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count temples: %w", err)
	}
	totalUsers, err := s.users.CountByRole(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	byLocation, err := s.temples.CountByLocation(ctx, topLocations)
	if err != nil {
		return nil, fmt.Errorf("count temples by location: %w", err)
	}
	if byLocation == nil {
		byLocation = []domain.LocationCount{}
	}

	return &domain.Stats{
		TotalTemples:      totalTemples,
		TotalUsers:        totalUsers,
		AdminUsers:        admins,
		TemplesByLocation: byLocation,
	}, nil
}
