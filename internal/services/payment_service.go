package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/metrics"
	"github.com/justsurfingit/ejobs/internal/models"
)

type PaymentService struct {
	DB      *gorm.DB
	Metrics *metrics.Metrics
	Log     *slog.Logger
}

func NewPaymentService(db *gorm.DB, m *metrics.Metrics, log *slog.Logger) *PaymentService {
	return &PaymentService{DB: db, Metrics: m, Log: log}
}

// Create records a pending payment for user's employer profile. No gateway
// is contacted; an admin settles the status later.
func (s *PaymentService) Create(ctx context.Context, user *models.User, req *dtos.PaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 || math.IsInf(req.Amount, 0) || math.IsNaN(req.Amount) {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !validPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	employer, err := employerFor(ctx, s.DB, user)
	if err != nil {
		return nil, err
	}

	if req.JobPostID != nil {
		var post models.JobPost
		if err := s.DB.WithContext(ctx).First(&post, *req.JobPostID).Error; err != nil {
			return nil, fmt.Errorf("%w: job post %d does not exist", ErrValidation, *req.JobPostID)
		}
		if post.EmployerID != employer.ID {
			return nil, fmt.Errorf("%w: job post %d belongs to another employer", ErrForbidden, post.ID)
		}
	}

	payment := &models.Payment{
		EmployerID:    employer.ID,
		JobPostID:     req.JobPostID,
		Amount:        math.Round(req.Amount*100) / 100,
		PaymentMethod: req.PaymentMethod,
		Status:        models.PaymentPending,
		TransactionID: uuid.NewString(),
	}
	if err := s.DB.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, fmt.Errorf("create payment: %w", translate(err))
	}

	s.Metrics.IncrementPaymentsRecorded(payment.PaymentMethod)
	s.Log.Info("payment recorded", "payment_id", payment.ID, "employer_id", employer.ID, "method", payment.PaymentMethod)
	return payment, nil
}

func validPaymentMethod(method string) bool {
	switch method {
	case models.PaymentCash, models.PaymentMomo, models.PaymentVNPay, models.PaymentPaypal, models.PaymentStripe:
		return true
	}
	return false
}
