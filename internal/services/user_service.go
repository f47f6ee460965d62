package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/auth"
	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/metrics"
	"github.com/justsurfingit/ejobs/internal/models"
	"github.com/justsurfingit/ejobs/internal/storage"
)

type UserService struct {
	DB      *gorm.DB
	Storage storage.Storage
	Metrics *metrics.Metrics
	Log     *slog.Logger
}

func NewUserService(db *gorm.DB, store storage.Storage, m *metrics.Metrics, log *slog.Logger) *UserService {
	return &UserService{
		DB:      db,
		Storage: store,
		Metrics: m,
		Log:     log,
	}
}

// Register creates a candidate or employer account.
func (s *UserService) Register(ctx context.Context, req *dtos.RegisterRequest, avatar *multipart.FileHeader) (*models.User, error) {
	if !models.ValidRole(req.Role) || req.Role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be CANDIDATE or EMPLOYER", ErrValidation)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		IsActive:     true,
	}
	if avatar != nil {
		if user.Avatar, err = s.Storage.Save(ctx, avatar, storage.FolderAvatars); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		s.discard(ctx, user.Avatar)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username %q is already taken", ErrConflict, req.Username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Metrics.IncrementUsersRegistered()
	s.Log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// CreateAdmin creates an ADMIN account. Only the admin CLI calls this.
func (s *UserService) CreateAdmin(ctx context.Context, username, password, email string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username %q is already taken", ErrConflict, username)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return user, nil
}

// Authenticate checks a username and password pair. Unknown users, inactive
// users and wrong passwords all yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &user, nil
}

// GetByID loads a user by primary key.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", id, translate(err))
	}
	return &user, nil
}

// UpdateCurrent applies a partial update to the calling user.
func (s *UserService) UpdateCurrent(ctx context.Context, user *models.User, req *dtos.UpdateUserRequest, avatar *multipart.FileHeader) (*models.User, error) {
	updates := map[string]any{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		updates["password_hash"] = hash
	}

	oldAvatar := ""
	if avatar != nil {
		name, err := s.Storage.Save(ctx, avatar, storage.FolderAvatars)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		updates["avatar"] = name
		oldAvatar = user.Avatar
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			if name, ok := updates["avatar"].(string); ok {
				s.discard(ctx, name)
			}
			return nil, fmt.Errorf("update user %d: %w", user.ID, translate(err))
		}
		s.discard(ctx, oldAvatar)
	}
	return s.GetByID(ctx, user.ID)
}

// Applications lists the calling candidate's applications, newest first.
// A candidate without a profile has none.
func (s *UserService) Applications(ctx context.Context, user *models.User) ([]models.JobApplication, error) {
	if user.Role != models.RoleCandidate {
		return nil, ErrForbidden
	}

	applications := []models.JobApplication{}
	err := s.DB.WithContext(ctx).
		Preload("Job").
		Preload("Job.Category").
		Preload("Job.Employer").
		Joins("JOIN candidate_profiles ON candidate_profiles.id = job_applications.candidate_id").
		Where("candidate_profiles.user_id = ?", user.ID).
		Order("job_applications.id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return applications, nil
}

func (s *UserService) discard(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.Storage.Delete(ctx, name); err != nil {
		s.Log.Warn("failed to remove upload", "file", name, "error", err)
	}
}
