package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/metrics"
	"github.com/justsurfingit/ejobs/internal/models"
	"github.com/justsurfingit/ejobs/internal/storage"
)

type JobService struct {
	DB      *gorm.DB
	Storage storage.Storage
	Metrics *metrics.Metrics
	Log     *slog.Logger
}

func NewJobService(db *gorm.DB, store storage.Storage, m *metrics.Metrics, log *slog.Logger) *JobService {
	return &JobService{
		DB:      db,
		Storage: store,
		Metrics: m,
		Log:     log,
	}
}

// visiblePosts scopes a query to posts shown on the public board.
func visiblePosts(db *gorm.DB) *gorm.DB {
	return db.Model(&models.JobPost{}).
		Where("job_posts.active = ? AND job_posts.status = ?", true, models.JobStatusOpening)
}

// List returns one page of open job posts, newest first.
func (s *JobService) List(ctx context.Context, filter dtos.JobPostFilter, page, size int) (*Page[models.JobPost], error) {
	query := visiblePosts(s.DB)

	if filter.Q != "" {
		like := containsPattern(filter.Q)
		query = query.
			Joins("LEFT JOIN employer_profiles ON employer_profiles.id = job_posts.employer_id").
			Where("("+ilike("job_posts.title")+" OR "+ilike("employer_profiles.company_name")+")", like, like)
	}
	if filter.CategoryID != nil {
		query = query.Where("job_posts.category_id = ?", *filter.CategoryID)
	}
	if filter.Location != "" {
		query = query.Where(ilike("job_posts.location"), containsPattern(filter.Location))
	}
	if filter.Salary != nil {
		query = query.Where("job_posts.salary_max >= ?", *filter.Salary)
	}

	return paginate[models.JobPost](ctx, query, "job_posts.created_at DESC, job_posts.id DESC", page, size,
		"Employer", "Category")
}

// Get returns a single open job post with its details.
func (s *JobService) Get(ctx context.Context, id uint) (*models.JobPost, error) {
	var post models.JobPost
	err := visiblePosts(s.DB.WithContext(ctx)).
		Preload("Employer").
		Preload("Category").
		Preload("Tags").
		Where("job_posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, fmt.Errorf("job post %d: %w", id, translate(err))
	}
	return &post, nil
}

// Apply submits user's application to the open job post jobID.
//
// Checks run in order: the post must be open, the user must not have applied
// already, the user must have a candidate profile, and a CV must come from
// the upload or the profile. The upload is only stored once every earlier
// check has passed.
func (s *JobService) Apply(ctx context.Context, user *models.User, jobID uint, cv *multipart.FileHeader, coverLetter string) (*models.JobApplication, error) {
	if user.Role != models.RoleCandidate {
		return nil, ErrForbidden
	}

	var post models.JobPost
	if err := visiblePosts(s.DB.WithContext(ctx)).Where("job_posts.id = ?", jobID).First(&post).Error; err != nil {
		return nil, fmt.Errorf("job post %d: %w", jobID, translate(err))
	}

	var existing int64
	err := s.DB.WithContext(ctx).Model(&models.JobApplication{}).
		Joins("JOIN candidate_profiles ON candidate_profiles.id = job_applications.candidate_id").
		Where("job_applications.job_id = ? AND candidate_profiles.user_id = ?", post.ID, user.ID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyApplied
	}

	var candidate models.CandidateProfile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", user.ID).First(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("load candidate profile: %w", err)
	}

	cvFile := candidate.CVFile
	uploaded := ""
	if cv != nil {
		name, err := s.Storage.Save(ctx, cv, storage.FolderCVs)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		cvFile, uploaded = name, name
	}
	if cvFile == "" {
		return nil, ErrCVRequired
	}

	application := &models.JobApplication{
		JobID:       post.ID,
		CandidateID: candidate.ID,
		CVFile:      cvFile,
		CoverLetter: coverLetter,
		Status:      models.ApplicationPending,
	}
	if err := s.DB.WithContext(ctx).Create(application).Error; err != nil {
		if uploaded != "" {
			if delErr := s.Storage.Delete(ctx, uploaded); delErr != nil {
				s.Log.Warn("failed to remove orphaned cv", "file", uploaded, "error", delErr)
			}
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.Metrics.IncrementApplicationsSubmitted()
	s.Log.Info("application submitted", "job_id", post.ID, "candidate_id", candidate.ID, "application_id", application.ID)
	return application, nil
}

// Create publishes a new job post for user's approved employer profile.
func (s *JobService) Create(ctx context.Context, user *models.User, req *dtos.JobPostCreateRequest) (*models.JobPost, error) {
	employer, err := approvedEmployer(ctx, s.DB, user)
	if err != nil {
		return nil, err
	}
	if err := checkSalary(req.SalaryMin, req.SalaryMax); err != nil {
		return nil, err
	}
	if err := checkCategory(ctx, s.DB, req.CategoryID); err != nil {
		return nil, err
	}
	tags, err := loadTags(ctx, s.DB, req.TagIDs)
	if err != nil {
		return nil, err
	}

	post := &models.JobPost{
		EmployerID:   employer.ID,
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Benefits:     req.Benefits,
		Location:     req.Location,
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		Status:       models.JobStatusOpening,
		IsFeatured:   req.IsFeatured,
		Deadline:     req.Deadline,
		Active:       true,
		Tags:         tags,
	}
	if err := s.DB.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("create job post: %w", translate(err))
	}

	s.Metrics.IncrementJobPostsCreated()
	s.Log.Info("job post created", "job_id", post.ID, "employer_id", employer.ID)
	return s.load(ctx, post.ID)
}

// Update applies a partial update to a job post owned by user.
func (s *JobService) Update(ctx context.Context, user *models.User, id uint, req *dtos.JobPostUpdateRequest) (*models.JobPost, error) {
	post, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.CategoryID != nil {
		if err := checkCategory(ctx, s.DB, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Requirements != nil {
		updates["requirements"] = *req.Requirements
	}
	if req.Benefits != nil {
		updates["benefits"] = *req.Benefits
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	salaryMin, salaryMax := post.SalaryMin, post.SalaryMax
	if req.SalaryMin != nil {
		salaryMin = *req.SalaryMin
		updates["salary_min"] = salaryMin
	}
	if req.SalaryMax != nil {
		salaryMax = *req.SalaryMax
		updates["salary_max"] = salaryMax
	}
	if err := checkSalary(salaryMin, salaryMax); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if !validJobStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	var tags []models.Tag
	if req.TagIDs != nil {
		if tags, err = loadTags(ctx, s.DB, *req.TagIDs); err != nil {
			return nil, err
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(post).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.TagIDs != nil {
			return tx.Model(post).Association("Tags").Replace(tags)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update job post %d: %w", id, translate(err))
	}
	return s.load(ctx, id)
}

// ListApplications returns every application to a job post owned by user.
func (s *JobService) ListApplications(ctx context.Context, user *models.User, id uint) ([]models.JobApplication, error) {
	post, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	applications := []models.JobApplication{}
	err = s.DB.WithContext(ctx).
		Preload("Candidate").
		Where("job_id = ?", post.ID).
		Order("id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return applications, nil
}

// owned loads any job post (open or not) and checks that user's employer
// profile owns it.
func (s *JobService) owned(ctx context.Context, user *models.User, id uint) (*models.JobPost, error) {
	employer, err := employerFor(ctx, s.DB, user)
	if err != nil {
		return nil, err
	}
	var post models.JobPost
	if err := s.DB.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("job post %d: %w", id, translate(err))
	}
	if post.EmployerID != employer.ID {
		return nil, fmt.Errorf("%w: job post %d belongs to another employer", ErrForbidden, id)
	}
	return &post, nil
}

func (s *JobService) load(ctx context.Context, id uint) (*models.JobPost, error) {
	var post models.JobPost
	err := s.DB.WithContext(ctx).
		Preload("Employer").
		Preload("Category").
		Preload("Tags").
		First(&post, id).Error
	if err != nil {
		return nil, fmt.Errorf("job post %d: %w", id, translate(err))
	}
	return &post, nil
}

// employerFor returns user's employer profile, or ErrForbidden when user
// is not an employer with a profile.
func employerFor(ctx context.Context, db *gorm.DB, user *models.User) (*models.EmployerProfile, error) {
	if user.Role != models.RoleEmployer {
		return nil, ErrForbidden
	}
	var employer models.EmployerProfile
	if err := db.WithContext(ctx).Where("user_id = ?", user.ID).First(&employer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: complete your employer profile first", ErrForbidden)
		}
		return nil, fmt.Errorf("load employer profile: %w", err)
	}
	return &employer, nil
}

func approvedEmployer(ctx context.Context, db *gorm.DB, user *models.User) (*models.EmployerProfile, error) {
	employer, err := employerFor(ctx, db, user)
	if err != nil {
		return nil, err
	}
	if !employer.IsApproved {
		return nil, fmt.Errorf("%w: employer profile is awaiting approval", ErrForbidden)
	}
	return employer, nil
}

func checkSalary(salaryMin, salaryMax int64) error {
	if salaryMin < 0 || salaryMax < 0 {
		return fmt.Errorf("%w: salary cannot be negative", ErrValidation)
	}
	if salaryMin > 0 && salaryMax > 0 && salaryMin > salaryMax {
		return fmt.Errorf("%w: salary_min must not exceed salary_max", ErrValidation)
	}
	return nil
}

func checkCategory(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.JobCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: category %d does not exist", ErrValidation, id)
	}
	return nil
}

func loadTags(ctx context.Context, db *gorm.DB, ids []uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	unique := map[uint]struct{}{}
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	if len(tags) != len(unique) {
		return nil, fmt.Errorf("%w: unknown tag id", ErrValidation)
	}
	return tags, nil
}

func validJobStatus(status string) bool {
	switch status {
	case models.JobStatusOpening, models.JobStatusClosed, models.JobStatusExpired:
		return true
	}
	return false
}
