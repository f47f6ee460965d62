package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/auth"
	"github.com/justsurfingit/ejobs/internal/database"
	"github.com/justsurfingit/ejobs/internal/logger"
	"github.com/justsurfingit/ejobs/internal/metrics"
	"github.com/justsurfingit/ejobs/internal/models"
	"github.com/justsurfingit/ejobs/internal/storage"
)

// serviceSuite gives every test a fresh in-memory database and upload dir.
type serviceSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	store   *storage.LocalStorage
	metrics *metrics.Metrics
	log     *slog.Logger
	seq     int
}

func (s *serviceSuite) SetupTest() {
	db, err := database.NewTestDB()
	s.Require().NoError(err)
	store, err := storage.NewLocalStorage(s.T().TempDir())
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.db = db
	s.store = store
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.log = logger.Discard()
	s.seq = 0
}

func (s *serviceSuite) TearDownTest() {
	s.Require().NoError(database.Close(s.db))
}

func (s *serviceSuite) next() int {
	s.seq++
	return s.seq
}

func (s *serviceSuite) createUser(role string) *models.User {
	hash, err := auth.HashPassword("password123")
	s.Require().NoError(err)
	user := &models.User{
		Username:     fmt.Sprintf("%s-%d", role, s.next()),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

func (s *serviceSuite) createEmployer(company string, approved bool) (*models.User, *models.EmployerProfile) {
	user := s.createUser(models.RoleEmployer)
	profile := &models.EmployerProfile{UserID: user.ID, CompanyName: company}
	s.Require().NoError(s.db.Create(profile).Error)
	if approved {
		s.Require().NoError(s.db.Model(profile).Update("is_approved", true).Error)
		profile.IsApproved = true
	}
	return user, profile
}

func (s *serviceSuite) createCandidate(fullName, cv string) (*models.User, *models.CandidateProfile) {
	user := s.createUser(models.RoleCandidate)
	profile := &models.CandidateProfile{UserID: user.ID, FullName: fullName, CVFile: cv}
	s.Require().NoError(s.db.Create(profile).Error)
	return user, profile
}

func (s *serviceSuite) createCategory(name string) *models.JobCategory {
	category := &models.JobCategory{Name: name, Active: true}
	s.Require().NoError(s.db.Create(category).Error)
	return category
}

func (s *serviceSuite) createPost(employer *models.EmployerProfile, category *models.JobCategory, title string, opts ...func(*models.JobPost)) *models.JobPost {
	post := &models.JobPost{
		EmployerID: employer.ID,
		CategoryID: category.ID,
		Title:      title,
		Location:   "Ho Chi Minh City",
		SalaryMin:  1000,
		SalaryMax:  2000,
		Status:     models.JobStatusOpening,
		Active:     true,
	}
	for _, opt := range opts {
		opt(post)
	}
	s.Require().NoError(s.db.Create(post).Error)
	// Create skips zero values of columns with defaults.
	s.Require().NoError(s.db.Model(post).Updates(map[string]any{"active": post.Active, "status": post.Status}).Error)
	return post
}

func (s *serviceSuite) createApplication(post *models.JobPost, candidate *models.CandidateProfile) *models.JobApplication {
	app := &models.JobApplication{
		JobID:       post.ID,
		CandidateID: candidate.ID,
		CVFile:      "cvs/existing.pdf",
		Status:      models.ApplicationPending,
	}
	s.Require().NoError(s.db.Create(app).Error)
	return app
}

func withLocation(location string) func(*models.JobPost) {
	return func(p *models.JobPost) { p.Location = location }
}

func withSalary(salaryMin, salaryMax int64) func(*models.JobPost) {
	return func(p *models.JobPost) { p.SalaryMin, p.SalaryMax = salaryMin, salaryMax }
}

func withStatus(status string) func(*models.JobPost) {
	return func(p *models.JobPost) { p.Status = status }
}

func inactive() func(*models.JobPost) {
	return func(p *models.JobPost) { p.Active = false }
}

func createdAt(t time.Time) func(*models.JobPost) {
	return func(p *models.JobPost) { p.CreatedAt = t }
}

// fileHeader builds a real multipart.FileHeader the way a request would.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}
