package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/models"
)

type MatcherService struct {
	DB *gorm.DB
}

func NewMatcherService(db *gorm.DB) *MatcherService {
	return &MatcherService{DB: db}
}

// FindCategory suggests an active category for a drafted job post. Any title
// match outranks every description match. Within the same field longer names
// win so that "Data Engineering" beats "Engineering". It returns nil when
// nothing matches.
func (s *MatcherService) FindCategory(ctx context.Context, title, description string) (*models.JobCategory, error) {
	var categories []models.JobCategory
	if err := s.DB.WithContext(ctx).Where("active = ?", true).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	var best *models.JobCategory
	bestTier, bestLen := 0, 0
	for i := range categories {
		name := strings.ToLower(strings.TrimSpace(categories[i].Name))
		// Very short names like "IT" match nearly everything.
		if len(name) < 3 {
			continue
		}

		tier := 0
		switch {
		case strings.Contains(titleLower, name):
			tier = 2
		case strings.Contains(descLower, name):
			tier = 1
		}
		if tier > bestTier || (tier == bestTier && tier > 0 && len(name) > bestLen) {
			best, bestTier, bestLen = &categories[i], tier, len(name)
		}
	}
	return best, nil
}
