package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/ejobs/internal/services"
)

// AdminHandler serves the admin console API. Each registered resource gets
// its own list/detail/update/delete routes.
type AdminHandler struct {
	Admin    *services.AdminService
	Stats    *services.StatsService
	PageSize int
}

func NewAdminHandler(admin *services.AdminService, stats *services.StatsService, pageSize int) *AdminHandler {
	return &AdminHandler{Admin: admin, Stats: stats, PageSize: pageSize}
}

// Register mounts the per-resource routes on group.
func (h *AdminHandler) Register(group *gin.RouterGroup) {
	group.GET("/stats", h.GetStats)
	for _, name := range h.Admin.Names() {
		r, err := h.Admin.Resource(name)
		if err != nil {
			continue
		}
		group.GET("/"+name, h.list(r))
		group.GET("/"+name+"/:id", h.get(r))
		group.PATCH("/"+name+"/:id", h.update(name))
		group.DELETE("/"+name+"/:id", h.delete(name))
		if r.Creatable() {
			group.POST("/"+name, h.create(name))
		}
	}
}

// GetStats is GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	report, err := h.Stats.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) list(r services.AdminResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := pageParam(c)
		if err != nil {
			respondError(c, err)
			return
		}
		params := map[string]string{}
		for key, values := range c.Request.URL.Query() {
			if key == "page" || len(values) == 0 || values[0] == "" {
				continue
			}
			params[key] = values[0]
		}

		result, err := r.List(c.Request.Context(), params, page, h.PageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pageResponse(c, result))
	}
}

func (h *AdminHandler) get(r services.AdminResource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		obj, err := r.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, obj)
	}
}

func (h *AdminHandler) create(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var values map[string]any
		if err := c.ShouldBindJSON(&values); err != nil {
			badRequest(c, err)
			return
		}
		obj, err := h.Admin.Create(c.Request.Context(), name, values)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, obj)
	}
}

func (h *AdminHandler) update(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var values map[string]any
		if err := c.ShouldBindJSON(&values); err != nil {
			badRequest(c, err)
			return
		}
		obj, err := h.Admin.Update(c.Request.Context(), name, id, values)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, obj)
	}
}

func (h *AdminHandler) delete(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := h.Admin.Delete(c.Request.Context(), name, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
