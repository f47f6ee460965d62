package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/ejobs/internal/dtos"
	"github.com/justsurfingit/ejobs/internal/services"
)

// errorStatuses maps service sentinels to HTTP statuses. Sentinels marked
// exact are answered with their own message rather than the wrapped one.
var errorStatuses = []struct {
	err    error
	status int
	exact  bool
}{
	{services.ErrInvalidPage, http.StatusNotFound, true},
	{services.ErrAlreadyApplied, http.StatusBadRequest, true},
	{services.ErrProfileRequired, http.StatusBadRequest, true},
	{services.ErrCVRequired, http.StatusBadRequest, true},
	{services.ErrValidation, http.StatusBadRequest, false},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, true},
	{services.ErrForbidden, http.StatusForbidden, false},
	{services.ErrNotFound, http.StatusNotFound, false},
	{services.ErrConflict, http.StatusConflict, false},
	{services.ErrLLMUnavailable, http.StatusServiceUnavailable, true},
	{services.ErrLLMBadResponse, http.StatusBadGateway, true},
}

// respondError writes the JSON error envelope for a service error. Errors
// that do not map to a client status are attached to the context for the
// request logger and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		msg := err.Error()
		if e.exact {
			msg = e.err.Error()
		}
		c.JSON(e.status, gin.H{"error": msg})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// idParam reads a numeric path parameter. A non-numeric id cannot name any
// row, so it is reported as 404.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// pageParam reads the 1-based page query parameter.
func pageParam(c *gin.Context) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, services.ErrInvalidPage
	}
	return page, nil
}

// optionalFile returns the uploaded file for field, or nil when the request
// has none.
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

// pageResponse wraps one page of results with absolute next/previous links.
func pageResponse[T any](c *gin.Context, page *services.Page[T]) dtos.PageResponse {
	resp := dtos.PageResponse{Count: page.Total, Results: page.Items}
	if page.HasNext() {
		next := pageURL(c, page.Number+1)
		resp.Next = &next
	}
	if page.HasPrevious() {
		prev := pageURL(c, page.Number-1)
		resp.Previous = &prev
	}
	return resp
}

func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	if page == 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}
