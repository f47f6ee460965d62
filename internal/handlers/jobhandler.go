package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/middleware"
	"github.com/justsurfingit/ejobs/internal/services"
)

type JobHandler struct {
	LLMService     *services.LLMService
	JobService     *services.JobService
	MatcherService *services.MatcherService
	PageSize       int
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(llm *services.LLMService, j *services.JobService, m *services.MatcherService, pageSize int) *JobHandler {
	return &JobHandler{
		LLMService:     llm,
		JobService:     j,
		MatcherService: m,
		PageSize:       pageSize,
	}
}

// ListJobs is GET /jobposts
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter, err := parseJobFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := pageParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.JobService.List(c.Request.Context(), filter, page, h.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(c, result))
}

// GetJob is GET /jobposts/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := h.JobService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ApplyJob is POST /jobposts/:id/apply
func (h *JobHandler) ApplyJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.ApplyRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	cv, err := optionalFile(c, "cv_file")
	if err != nil {
		badRequest(c, err)
		return
	}

	application, err := h.JobService.Apply(c.Request.Context(), middleware.CurrentUser(c), id, cv, req.CoverLetter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, application)
}

// CreateJob is POST /jobposts
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobPostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.JobService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// UpdateJob is PATCH /jobposts/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.JobPostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	job, err := h.JobService.Update(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListApplications is GET /jobposts/:id/applications
func (h *JobHandler) ListApplications(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	applications, err := h.JobService.ListApplications(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, applications)
}

// ParseJob is the POST /jobposts/extract endpoint. It drafts a job post from
// a pasted posting page and suggests a category for it.
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	draft, err := h.LLMService.ExtractJobPost(c.Request.Context(), req.RawHTML)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dtos.JobExtractionResponse{Draft: draft, SourceURL: req.URL}
	category, err := h.MatcherService.FindCategory(c.Request.Context(), draft.Title, draft.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	if category != nil {
		resp.SuggestedCategoryID = &category.ID
	}
	c.JSON(http.StatusOK, resp)
}

func parseJobFilter(c *gin.Context) (dtos.JobPostFilter, error) {
	filter := dtos.JobPostFilter{
		Q:        c.Query("q"),
		Location: c.Query("location"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, errors.New("category_id must be an integer")
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("salary"); raw != "" {
		salary, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, errors.New("salary must be an integer")
		}
		filter.Salary = &salary
	}
	return filter, nil
}
