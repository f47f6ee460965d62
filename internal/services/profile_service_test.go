package services

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/models"
)

type ProfileServiceSuite struct {
	serviceSuite
	profiles *ProfileService
	reviews  *ReviewService
	payments *PaymentService
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.profiles = NewProfileService(s.db, s.store, s.log)
	s.reviews = NewReviewService(s.db, s.log)
	s.payments = NewPaymentService(s.db, s.metrics, s.log)
}

func (s *ProfileServiceSuite) TestUpsertCandidate() {
	user := s.createUser(models.RoleCandidate)

	profile, err := s.profiles.UpsertCandidate(s.ctx, user, &dtos.CandidateProfileRequest{
		FullName: "Nguyen Van A",
		Skills:   "Go, SQL",
	}, fileHeader(s.T(), "cv.pdf", []byte("%PDF")))
	s.Require().NoError(err)
	s.NotZero(profile.ID)
	s.Contains(profile.CVFile, "cvs/")
	cv := profile.CVFile

	updated, err := s.profiles.UpsertCandidate(s.ctx, user, &dtos.CandidateProfileRequest{
		FullName: "Nguyen Van B",
		Phone:    "0900000000",
	}, nil)
	s.Require().NoError(err)
	s.Equal(profile.ID, updated.ID)
	s.Equal("Nguyen Van B", updated.FullName)
	s.Equal(cv, updated.CVFile, "stored cv is kept without a new upload")

	var count int64
	s.Require().NoError(s.db.Model(&models.CandidateProfile{}).Count(&count).Error)
	s.Equal(int64(1), count)

	employer := s.createUser(models.RoleEmployer)
	_, err = s.profiles.UpsertCandidate(s.ctx, employer, &dtos.CandidateProfileRequest{FullName: "X"}, nil)
	s.ErrorIs(err, ErrForbidden)
}

func (s *ProfileServiceSuite) TestUpsertEmployer_NeverApproves() {
	user := s.createUser(models.RoleEmployer)

	profile, err := s.profiles.UpsertEmployer(s.ctx, user, &dtos.EmployerProfileRequest{CompanyName: "Acme"},
		fileHeader(s.T(), "logo.png", []byte("png")))
	s.Require().NoError(err)
	s.False(profile.IsApproved)
	s.Contains(profile.Logo, "logos/")

	approved, err := s.profiles.ApproveEmployer(s.ctx, profile.ID)
	s.Require().NoError(err)
	s.Equal(profile.ID, approved.ID)

	updated, err := s.profiles.UpsertEmployer(s.ctx, user, &dtos.EmployerProfileRequest{CompanyName: "Acme Ltd"}, nil)
	s.Require().NoError(err)
	s.True(updated.IsApproved, "approval survives profile edits")
	s.Equal("Acme Ltd", updated.CompanyName)
	s.Equal(profile.Logo, updated.Logo)

	_, err = s.profiles.ApproveEmployer(s.ctx, 999)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ProfileServiceSuite) TestReview() {
	owner, acme := s.createEmployer("Acme", true)
	other, _ := s.createEmployer("Globex", true)
	post := s.createPost(acme, s.createCategory("Engineering"), "Backend")
	_, candidate := s.createCandidate("A", "cvs/a.pdf")
	app := s.createApplication(post, candidate)

	review, err := s.reviews.Create(s.ctx, owner, app.ID, &dtos.ReviewRequest{Score: 4, Comment: "Solid"})
	s.Require().NoError(err)
	s.Equal(acme.ID, review.EmployerID)
	s.Equal(4, review.Score)

	_, err = s.reviews.Create(s.ctx, owner, app.ID, &dtos.ReviewRequest{Score: 5})
	s.ErrorIs(err, ErrConflict)

	_, err = s.reviews.Create(s.ctx, other, app.ID, &dtos.ReviewRequest{Score: 5})
	s.ErrorIs(err, ErrForbidden)

	_, err = s.reviews.Create(s.ctx, owner, app.ID, &dtos.ReviewRequest{Score: 6})
	s.ErrorIs(err, ErrValidation)

	_, err = s.reviews.Create(s.ctx, owner, 999, &dtos.ReviewRequest{Score: 3})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ProfileServiceSuite) TestPayment() {
	owner, acme := s.createEmployer("Acme", false)
	_, globex := s.createEmployer("Globex", true)
	eng := s.createCategory("Engineering")
	mine := s.createPost(acme, eng, "Mine")
	theirs := s.createPost(globex, eng, "Theirs")

	payment, err := s.payments.Create(s.ctx, owner, &dtos.PaymentRequest{
		Amount:        49.999,
		PaymentMethod: models.PaymentMomo,
		JobPostID:     &mine.ID,
	})
	s.Require().NoError(err)
	s.Equal(models.PaymentPending, payment.Status)
	s.Equal(50.0, payment.Amount)
	s.Len(payment.TransactionID, 36)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.PaymentsRecorded.WithLabelValues(models.PaymentMomo)))

	second, err := s.payments.Create(s.ctx, owner, &dtos.PaymentRequest{Amount: 10, PaymentMethod: models.PaymentCash})
	s.Require().NoError(err)
	s.NotEqual(payment.TransactionID, second.TransactionID)

	_, err = s.payments.Create(s.ctx, owner, &dtos.PaymentRequest{Amount: 10, PaymentMethod: models.PaymentCash, JobPostID: &theirs.ID})
	s.ErrorIs(err, ErrForbidden)

	_, err = s.payments.Create(s.ctx, owner, &dtos.PaymentRequest{Amount: 0, PaymentMethod: models.PaymentCash})
	s.ErrorIs(err, ErrValidation)

	_, err = s.payments.Create(s.ctx, owner, &dtos.PaymentRequest{Amount: 5, PaymentMethod: "BITCOIN"})
	s.ErrorIs(err, ErrValidation)

	candidate, _ := s.createCandidate("A", "")
	_, err = s.payments.Create(s.ctx, candidate, &dtos.PaymentRequest{Amount: 5, PaymentMethod: models.PaymentCash})
	s.ErrorIs(err, ErrForbidden)
}
