package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/models"
)

type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

// List returns every category ordered by id.
func (s *CategoryService) List(ctx context.Context) ([]models.JobCategory, error) {
	categories := []models.JobCategory{}
	if err := s.DB.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
