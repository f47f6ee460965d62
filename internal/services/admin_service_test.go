package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/justsurfingit/ejobs/internal/models"
)

type AdminServiceSuite struct {
	serviceSuite
	cache *mockCache
	svc   *AdminService
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.cache = new(mockCache)
	s.cache.On("Delete", mock.Anything, statsCacheKey).Return(nil).Maybe()
	s.svc = NewAdminService(s.db, NewStatsService(s.db, s.cache, time.Minute, s.log), s.log)
}

func (s *AdminServiceSuite) resource(name string) AdminResource {
	r, err := s.svc.Resource(name)
	s.Require().NoError(err)
	return r
}

func (s *AdminServiceSuite) TestNames() {
	s.Equal([]string{
		"applications", "candidates", "categories", "employers", "jobposts",
		"payments", "reviews", "tags", "users",
	}, s.svc.Names())

	_, err := s.svc.Resource("secrets")
	s.ErrorIs(err, ErrNotFound)
}

func (s *AdminServiceSuite) TestListJobPosts_SearchAndFilters() {
	_, acme := s.createEmployer("Acme", true)
	_, globex := s.createEmployer("Globex", true)
	eng := s.createCategory("Engineering")
	s.createPost(acme, eng, "Backend", withLocation("Hanoi"))
	s.createPost(globex, eng, "Frontend", withStatus(models.JobStatusClosed), withLocation("Hanoi"))
	s.createPost(globex, eng, "Hidden", inactive(), withLocation("Saigon"))

	r := s.resource("jobposts")

	page, err := r.List(s.ctx, map[string]string{}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(3), page.Total, "admin sees inactive and closed posts")
	s.Equal("Hidden", page.Items[0].(*models.JobPost).Title, "newest first")

	page, err = r.List(s.ctx, map[string]string{"search": "GLOBEX"}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)

	page, err = r.List(s.ctx, map[string]string{"status": models.JobStatusClosed, "location": "Hanoi"}, 1, 10)
	s.Require().NoError(err)
	s.Require().Equal(int64(1), page.Total)
	s.Equal("Frontend", page.Items[0].(*models.JobPost).Title)

	_, err = r.List(s.ctx, map[string]string{"status": "DRAFT"}, 1, 10)
	s.ErrorIs(err, ErrValidation)

	_, err = r.List(s.ctx, map[string]string{"category_id": "abc"}, 1, 10)
	s.ErrorIs(err, ErrValidation)

	_, err = r.List(s.ctx, map[string]string{}, 5, 10)
	s.ErrorIs(err, ErrInvalidPage)
}

func (s *AdminServiceSuite) TestUpdate_Whitelist() {
	_, acme := s.createEmployer("Acme", false)

	obj, err := s.svc.Update(s.ctx, "employers", acme.ID, map[string]any{"is_approved": true, "website": "https://acme.example"})
	s.Require().NoError(err)
	employer := obj.(*models.EmployerProfile)
	s.True(employer.IsApproved)
	s.Equal("https://acme.example", employer.Website)
	s.NotNil(employer.User)

	_, err = s.svc.Update(s.ctx, "employers", acme.ID, map[string]any{"user_id": 1.0})
	s.ErrorIs(err, ErrValidation)

	_, err = s.svc.Update(s.ctx, "employers", acme.ID, map[string]any{"is_approved": "yes"})
	s.ErrorIs(err, ErrValidation)

	_, err = s.svc.Update(s.ctx, "employers", 999, map[string]any{"is_approved": true})
	s.ErrorIs(err, ErrNotFound)

	s.cache.AssertCalled(s.T(), "Delete", mock.Anything, statsCacheKey)
}

func (s *AdminServiceSuite) TestUpdate_JobPostSalaryInvariant() {
	_, acme := s.createEmployer("Acme", true)
	post := s.createPost(acme, s.createCategory("Engineering"), "Backend", withSalary(1000, 2000))

	_, err := s.svc.Update(s.ctx, "jobposts", post.ID, map[string]any{"salary_min": 3000.0})
	s.ErrorIs(err, ErrValidation)

	obj, err := s.svc.Update(s.ctx, "jobposts", post.ID, map[string]any{"salary_min": 1500.0, "is_featured": true, "deadline": "2030-01-02T15:04:05Z"})
	s.Require().NoError(err)
	updated := obj.(*models.JobPost)
	s.Equal(int64(1500), updated.SalaryMin)
	s.True(updated.IsFeatured)
	s.Require().NotNil(updated.Deadline)
	s.Equal(2030, updated.Deadline.UTC().Year())

	_, err = s.svc.Update(s.ctx, "jobposts", post.ID, map[string]any{"salary_min": 1.5})
	s.ErrorIs(err, ErrValidation)
}

func (s *AdminServiceSuite) TestReviewsScoreBounds() {
	_, acme := s.createEmployer("Acme", true)
	post := s.createPost(acme, s.createCategory("Engineering"), "Backend")
	_, candidate := s.createCandidate("Tran Thi B", "cvs/b.pdf")
	app := s.createApplication(post, candidate)
	review := &models.ApplicationReview{ApplicationID: app.ID, EmployerID: acme.ID, Score: 3}
	s.Require().NoError(s.db.Create(review).Error)

	_, err := s.svc.Update(s.ctx, "reviews", review.ID, map[string]any{"score": 9.0})
	s.ErrorIs(err, ErrValidation)

	obj, err := s.svc.Update(s.ctx, "reviews", review.ID, map[string]any{"score": 5.0, "comment": "great"})
	s.Require().NoError(err)
	s.Equal(5, obj.(*models.ApplicationReview).Score)

	r := s.resource("reviews")
	page, err := r.List(s.ctx, map[string]string{"search": "tran thi"}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	page, err = r.List(s.ctx, map[string]string{"search": "acme", "score": "5"}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	today := time.Now().Format(time.DateOnly)
	page, err = r.List(s.ctx, map[string]string{"created_date": today}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	page, err = r.List(s.ctx, map[string]string{"created_date": "2001-01-01"}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(0), page.Total)

	_, err = r.List(s.ctx, map[string]string{"created_date": "yesterday"}, 1, 10)
	s.ErrorIs(err, ErrValidation)
}

func (s *AdminServiceSuite) TestCreateCategoryAndTag() {
	obj, err := s.svc.Create(s.ctx, "categories", map[string]any{"name": "Design", "active": false})
	s.Require().NoError(err)
	category := obj.(*models.JobCategory)
	s.NotZero(category.ID)

	var stored models.JobCategory
	s.Require().NoError(s.db.First(&stored, category.ID).Error)
	s.False(stored.Active, "explicit false survives the column default")

	_, err = s.svc.Create(s.ctx, "categories", map[string]any{"name": "Design"})
	s.ErrorIs(err, ErrConflict)

	_, err = s.svc.Create(s.ctx, "categories", map[string]any{"active": true})
	s.ErrorIs(err, ErrValidation)

	_, err = s.svc.Create(s.ctx, "tags", map[string]any{"name": "golang"})
	s.Require().NoError(err)

	_, err = s.svc.Create(s.ctx, "users", map[string]any{"email": "x@example.com"})
	s.ErrorIs(err, ErrForbidden)
}

func (s *AdminServiceSuite) TestDeleteTagDetachesJobPosts() {
	_, acme := s.createEmployer("Acme", true)
	post := s.createPost(acme, s.createCategory("Engineering"), "Backend")
	tag := &models.Tag{Name: "go"}
	s.Require().NoError(s.db.Create(tag).Error)
	s.Require().NoError(s.db.Model(post).Association("Tags").Append(tag))

	s.Require().NoError(s.svc.Delete(s.ctx, "tags", tag.ID))

	var count int64
	s.Require().NoError(s.db.Table("job_post_tags").Count(&count).Error)
	s.Equal(int64(0), count)
	s.Require().NoError(s.db.Model(&models.JobPost{}).Count(&count).Error)
	s.Equal(int64(1), count)

	s.ErrorIs(s.svc.Delete(s.ctx, "tags", tag.ID), ErrNotFound)
}

func (s *AdminServiceSuite) TestDeleteJobPostRemovesTagLinks() {
	_, acme := s.createEmployer("Acme", true)
	post := s.createPost(acme, s.createCategory("Engineering"), "Backend")
	tag := &models.Tag{Name: "go"}
	s.Require().NoError(s.db.Create(tag).Error)
	s.Require().NoError(s.db.Model(post).Association("Tags").Append(tag))

	s.Require().NoError(s.svc.Delete(s.ctx, "jobposts", post.ID))

	var count int64
	s.Require().NoError(s.db.Table("job_post_tags").Count(&count).Error)
	s.Equal(int64(0), count)
	s.Require().NoError(s.db.Model(&models.Tag{}).Count(&count).Error)
	s.Equal(int64(1), count, "tags themselves are kept")
}

func (s *AdminServiceSuite) TestUsersFilters() {
	s.createUser(models.RoleCandidate)
	s.createUser(models.RoleCandidate)
	blocked := s.createUser(models.RoleEmployer)
	s.Require().NoError(s.db.Model(blocked).Update("is_active", false).Error)

	r := s.resource("users")
	page, err := r.List(s.ctx, map[string]string{"role": models.RoleCandidate}, 1, 10)
	s.Require().NoError(err)
	s.Equal(int64(2), page.Total)

	page, err = r.List(s.ctx, map[string]string{"is_active": "false"}, 1, 10)
	s.Require().NoError(err)
	s.Require().Equal(int64(1), page.Total)
	s.Equal(blocked.ID, page.Items[0].(*models.User).ID)

	_, err = r.List(s.ctx, map[string]string{"is_active": "maybe"}, 1, 10)
	s.ErrorIs(err, ErrValidation)
}

func (s *AdminServiceSuite) TestDeleteReferencedRowConflicts() {
	owner, acme := s.createEmployer("Acme", true)
	eng := s.createCategory("Engineering")
	post := s.createPost(acme, eng, "Backend")
	_, candidate := s.createCandidate("Nguyen Van A", "cvs/a.pdf")
	s.createApplication(post, candidate)

	s.ErrorIs(s.svc.Delete(s.ctx, "categories", eng.ID), ErrConflict)
	s.ErrorIs(s.svc.Delete(s.ctx, "employers", acme.ID), ErrConflict)
	s.ErrorIs(s.svc.Delete(s.ctx, "users", owner.ID), ErrConflict)
	s.ErrorIs(s.svc.Delete(s.ctx, "jobposts", post.ID), ErrConflict)

	var stored models.JobPost
	s.Require().NoError(s.db.Preload("Category").Preload("Employer").First(&stored, post.ID).Error)
	s.Require().NotNil(stored.Category)
	s.Require().NotNil(stored.Employer)
	s.Equal("Engineering", stored.Category.Name)

	unused := s.createCategory("Sales")
	s.NoError(s.svc.Delete(s.ctx, "categories", unused.ID))
}
