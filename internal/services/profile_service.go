package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/models"
	"github.com/justsurfingit/ejobs/internal/storage"
)

type ProfileService struct {
	DB      *gorm.DB
	Storage storage.Storage
	Log     *slog.Logger
}

func NewProfileService(db *gorm.DB, store storage.Storage, log *slog.Logger) *ProfileService {
	return &ProfileService{DB: db, Storage: store, Log: log}
}

// UpsertCandidate creates or updates the calling candidate's profile. A new
// cv replaces the stored one; otherwise the stored cv is kept.
func (s *ProfileService) UpsertCandidate(ctx context.Context, user *models.User, req *dtos.CandidateProfileRequest, cv *multipart.FileHeader) (*models.CandidateProfile, error) {
	if user.Role != models.RoleCandidate {
		return nil, ErrForbidden
	}

	var profile models.CandidateProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load candidate profile: %w", err)
	}

	profile.UserID = user.ID
	profile.FullName = req.FullName
	profile.Phone = req.Phone
	profile.Skills = req.Skills
	profile.Experience = req.Experience
	if cv != nil {
		name, err := s.Storage.Save(ctx, cv, storage.FolderCVs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		profile.CVFile = name
	}

	if err := s.DB.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("save candidate profile: %w", translate(err))
	}
	return &profile, nil
}

// UpsertEmployer creates or updates the calling employer's profile. New
// profiles start unapproved and approval is never changed here.
func (s *ProfileService) UpsertEmployer(ctx context.Context, user *models.User, req *dtos.EmployerProfileRequest, logo *multipart.FileHeader) (*models.EmployerProfile, error) {
	if user.Role != models.RoleEmployer {
		return nil, ErrForbidden
	}

	var profile models.EmployerProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load employer profile: %w", err)
	}

	profile.UserID = user.ID
	profile.CompanyName = req.CompanyName
	profile.Website = req.Website
	profile.Address = req.Address
	profile.Description = req.Description
	oldLogo := ""
	if logo != nil {
		name, err := s.Storage.Save(ctx, logo, storage.FolderLogos)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		oldLogo, profile.Logo = profile.Logo, name
	}

	if err := s.DB.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("save employer profile: %w", translate(err))
	}
	if oldLogo != "" {
		if err := s.Storage.Delete(ctx, oldLogo); err != nil {
			s.Log.Warn("failed to remove old logo", "file", oldLogo, "error", err)
		}
	}
	return &profile, nil
}

// ApproveEmployer marks an employer profile as approved so it may post jobs.
func (s *ProfileService) ApproveEmployer(ctx context.Context, id uint) (*models.EmployerProfile, error) {
	var profile models.EmployerProfile
	if err := s.DB.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, fmt.Errorf("employer %d: %w", id, translate(err))
	}
	if err := s.DB.WithContext(ctx).Model(&profile).Update("is_approved", true).Error; err != nil {
		return nil, fmt.Errorf("approve employer %d: %w", id, err)
	}
	profile.IsApproved = true
	s.Log.Info("employer approved", "employer_id", id)
	return &profile, nil
}
