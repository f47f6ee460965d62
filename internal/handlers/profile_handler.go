package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/middleware"
	"github.com/justsurfingit/ejobs/internal/services"
)

type ProfileHandler struct {
	Profiles *services.ProfileService
	Reviews  *services.ReviewService
	Payments *services.PaymentService
}

func NewProfileHandler(profiles *services.ProfileService, reviews *services.ReviewService, payments *services.PaymentService) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Reviews: reviews, Payments: payments}
}

// PutCandidate is PUT /profiles/candidate
func (h *ProfileHandler) PutCandidate(c *gin.Context) {
	var req dtos.CandidateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	cv, err := optionalFile(c, "cv_file")
	if err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.Profiles.UpsertCandidate(c.Request.Context(), middleware.CurrentUser(c), &req, cv)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PutEmployer is PUT /profiles/employer
func (h *ProfileHandler) PutEmployer(c *gin.Context) {
	var req dtos.EmployerProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	logo, err := optionalFile(c, "logo")
	if err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.Profiles.UpsertEmployer(c.Request.Context(), middleware.CurrentUser(c), &req, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateReview is POST /applications/:id/reviews
func (h *ProfileHandler) CreateReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.Reviews.Create(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// CreatePayment is POST /payments
func (h *ProfileHandler) CreatePayment(c *gin.Context) {
	var req dtos.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.Payments.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}
