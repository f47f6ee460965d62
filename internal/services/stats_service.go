package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/cache"
	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/models"
)

const statsCacheKey = "admin:stats"

type StatsService struct {
	DB    *gorm.DB
	Cache cache.Cache
	TTL   time.Duration
	Log   *slog.Logger
}

// NewStatsService builds the report service. A nil cache disables caching.
func NewStatsService(db *gorm.DB, c cache.Cache, ttl time.Duration, log *slog.Logger) *StatsService {
	if c == nil {
		c = cache.Noop{}
	}
	return &StatsService{DB: db, Cache: c, TTL: ttl, Log: log}
}

// Report returns the dashboard aggregates, from cache when possible. Cache
// failures are logged and the report is computed from the database.
func (s *StatsService) Report(ctx context.Context) (*dtos.StatsReport, error) {
	var cached dtos.StatsReport
	found, err := s.Cache.Get(ctx, statsCacheKey, &cached)
	if err != nil {
		s.Log.Warn("stats cache read failed", "error", err)
	}
	if found {
		return &cached, nil
	}

	report, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.TTL > 0 {
		if err := s.Cache.Set(ctx, statsCacheKey, report, s.TTL); err != nil {
			s.Log.Warn("stats cache write failed", "error", err)
		}
	}
	return report, nil
}

// compute runs the three aggregates concurrently. Each one writes only its
// own slice of the report.
func (s *StatsService) compute(ctx context.Context) (*dtos.StatsReport, error) {
	report := &dtos.StatsReport{
		JobStats:     []dtos.JobStat{},
		RevenueStats: []dtos.RevenueStat{},
		UserStats:    []dtos.UserStat{},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.DB.WithContext(ctx).Model(&models.JobCategory{}).
			Select("job_categories.name AS name, COUNT(job_posts.id) AS job_count").
			Joins("LEFT JOIN job_posts ON job_posts.category_id = job_categories.id").
			Group("job_categories.id, job_categories.name").
			Order("job_count DESC, job_categories.name").
			Limit(10).
			Scan(&report.JobStats).Error
		if err != nil {
			return fmt.Errorf("job stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.DB.WithContext(ctx).Model(&models.Payment{}).
			Select("payment_method, SUM(amount) AS total").
			Where("status = ?", models.PaymentSuccess).
			Group("payment_method").
			Order("payment_method").
			Scan(&report.RevenueStats).Error
		if err != nil {
			return fmt.Errorf("revenue stats: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := s.DB.WithContext(ctx).Model(&models.User{}).
			Select("role, COUNT(id) AS total").
			Group("role").
			Order("role").
			Scan(&report.UserStats).Error
		if err != nil {
			return fmt.Errorf("user stats: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// Invalidate drops the cached report.
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.Cache.Delete(ctx, statsCacheKey); err != nil {
		s.Log.Warn("stats cache delete failed", "error", err)
	}
}
