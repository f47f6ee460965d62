package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justsurfingit/ejobs/internal/auth"
	"github.com/justsurfingit/ejobs/internal/metrics"
	"github.com/justsurfingit/ejobs/internal/middleware"
	"github.com/justsurfingit/ejobs/internal/models"
	"github.com/justsurfingit/ejobs/internal/services"
)

// Dependencies is everything the router needs.
type Dependencies struct {
	Log            *slog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Tokens         *auth.TokenService
	UploadDir      string
	PageSize       int
	CORSOrigins    []string

	Users      *services.UserService
	Jobs       *services.JobService
	Categories *services.CategoryService
	Profiles   *services.ProfileService
	Reviews    *services.ReviewService
	Payments   *services.PaymentService
	Admin      *services.AdminService
	Stats      *services.StatsService
	LLM        *services.LLMService
	Matcher    *services.MatcherService
}

// NewRouter builds the gin engine with every ejobs route mounted.
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), middleware.Metrics(d.Metrics))

	config := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.CORSOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(config))

	metricsHandler := d.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))
	if d.UploadDir != "" {
		r.Static("/media", d.UploadDir)
	}

	jobHandler := NewJobHandler(d.LLM, d.Jobs, d.Matcher, d.PageSize)
	userHandler := NewUserHandler(d.Users, d.Tokens)
	profileHandler := NewProfileHandler(d.Profiles, d.Reviews, d.Payments)
	categoryHandler := NewCategoryHandler(d.Categories)

	requireAuth := middleware.RequireAuth(d.Tokens, d.Users, d.Log)
	candidate := middleware.RequireRole(models.RoleCandidate)
	employer := middleware.RequireRole(models.RoleEmployer)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)
		api.GET("/categories", categoryHandler.ListCategories)

		// Job Routes
		public := api.Group("", middleware.OptionalAuth(d.Tokens, d.Users))
		public.GET("/jobposts", jobHandler.ListJobs)
		public.GET("/jobposts/:id", jobHandler.GetJob)
		api.POST("/jobposts/:id/apply", requireAuth, candidate, jobHandler.ApplyJob)
		api.POST("/jobposts", requireAuth, employer, jobHandler.CreateJob)
		api.POST("/jobposts/extract", requireAuth, employer, jobHandler.ParseJob)
		api.PATCH("/jobposts/:id", requireAuth, employer, jobHandler.UpdateJob)
		api.GET("/jobposts/:id/applications", requireAuth, employer, jobHandler.ListApplications)

		// Users and auth
		api.POST("/users", userHandler.Register)
		api.POST("/auth/token", userHandler.Token)
		me := api.Group("/users/current-user", requireAuth)
		me.GET("", userHandler.CurrentUser)
		me.PATCH("", userHandler.UpdateCurrentUser)
		me.GET("/applications", candidate, userHandler.Applications)

		// Profiles, reviews and payments
		api.PUT("/profiles/candidate", requireAuth, candidate, profileHandler.PutCandidate)
		api.PUT("/profiles/employer", requireAuth, employer, profileHandler.PutEmployer)
		api.POST("/applications/:id/reviews", requireAuth, employer, profileHandler.CreateReview)
		api.POST("/payments", requireAuth, employer, profileHandler.CreatePayment)

		admin := api.Group("/admin", requireAuth, middleware.RequireRole(models.RoleAdmin))
		NewAdminHandler(d.Admin, d.Stats, d.PageSize).Register(admin)
	}

	return r
}
