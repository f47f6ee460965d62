package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/models"
)

type ReviewService struct {
	DB  *gorm.DB
	Log *slog.Logger
}

func NewReviewService(db *gorm.DB, log *slog.Logger) *ReviewService {
	return &ReviewService{DB: db, Log: log}
}

// Create scores an application to one of user's job posts. An employer may
// review a given application once.
func (s *ReviewService) Create(ctx context.Context, user *models.User, applicationID uint, req *dtos.ReviewRequest) (*models.ApplicationReview, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, fmt.Errorf("%w: score must be between 1 and 5", ErrValidation)
	}
	employer, err := employerFor(ctx, s.DB, user)
	if err != nil {
		return nil, err
	}

	var application models.JobApplication
	if err := s.DB.WithContext(ctx).Preload("Job").First(&application, applicationID).Error; err != nil {
		return nil, fmt.Errorf("application %d: %w", applicationID, translate(err))
	}
	if application.Job == nil || application.Job.EmployerID != employer.ID {
		return nil, fmt.Errorf("%w: application %d is not for one of your job posts", ErrForbidden, applicationID)
	}

	review := &models.ApplicationReview{
		ApplicationID: application.ID,
		EmployerID:    employer.ID,
		Score:         req.Score,
		Comment:       req.Comment,
	}
	if err := s.DB.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already reviewed this application", ErrConflict)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.Log.Info("application reviewed", "application_id", application.ID, "employer_id", employer.ID, "score", review.Score)
	return review, nil
}
