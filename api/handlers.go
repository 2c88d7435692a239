package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

const defaultMaxBodyBytes = 4 << 20

// JobBoard is the engine surface the handlers depend on
type JobBoard interface {
	ListJobs(ctx context.Context) ([]model.JobRecord, error)
	GetJob(ctx context.Context, id model.JobID) (model.JobRecord, error)
	CreateJob(ctx context.Context, job model.JobRecord) (model.JobRecord, error)
	UpdateJob(ctx context.Context, id model.JobID, job model.JobRecord) (model.JobRecord, error)
	DeleteJob(ctx context.Context, id model.JobID) error
	ImportJobs(ctx context.Context, jobs []model.JobRecord) (int, error)
	Browse(ctx context.Context, criteria services.FilterCriteria) ([]model.JobRecord, error)
	Search(ctx context.Context, criteria services.FilterCriteria) ([]model.JobRecord, error)
	AdminBrowse(ctx context.Context, criteria services.FilterCriteria) ([]model.JobRecord, error)
	Suggest(ctx context.Context, query string) ([]string, error)
	SuggestLocations(ctx context.Context, query string) ([]string, error)
}

// Dependencies wires the API to its collaborators
type Dependencies struct {
	Board    JobBoard
	Activity services.ActivityRecorder
	Reports  services.AnalyticsReporter
	Auth     services.AdminAuthenticator

	CORSOrigins      []string
	MaxBodyBytes     int64 // defaults to 4 MiB
	OpenRegistration bool  // when false only admins can register new admins
	Logger           *slog.Logger
}

// API holds dependencies for API handlers.
type API struct {
	board            JobBoard
	activity         services.ActivityRecorder
	reports          services.AnalyticsReporter
	auth             services.AdminAuthenticator
	openRegistration bool
	logger           *slog.Logger
}

// NewAPI creates a new API handler structure.
func NewAPI(deps Dependencies) (*API, error) {
	if deps.Board == nil {
		return nil, fmt.Errorf("job board cannot be nil")
	}
	if deps.Activity == nil || deps.Reports == nil {
		return nil, fmt.Errorf("analytics cannot be nil")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		board:            deps.Board,
		activity:         deps.Activity,
		reports:          deps.Reports,
		auth:             deps.Auth,
		openRegistration: deps.OpenRegistration,
		logger:           logger.With("component", "api"),
	}, nil
}

// SetupRoutes defines all the API routes for the job board.
func SetupRoutes(router *gin.Engine, deps Dependencies) error {
	apiHandler, err := NewAPI(deps)
	if err != nil {
		return err
	}

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	router.Use(
		RequestIDMiddleware(),
		LoggingMiddleware(apiHandler.logger),
		CORSMiddleware(deps.CORSOrigins),
		RequestSizeLimitMiddleware(maxBody),
	)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	requireAdmin := apiHandler.RequireAdmin()

	// Job routes: reads are public, mutations need an admin token
	jobRoutes := router.Group("/api/jobs")
	{
		jobRoutes.GET("", apiHandler.BrowseJobsHandler)
		jobRoutes.GET("/search", apiHandler.SearchJobsHandler)
		jobRoutes.GET("/location", apiHandler.SearchByLocationHandler)
		jobRoutes.GET("/:id", apiHandler.GetJobHandler)
		jobRoutes.POST("", requireAdmin, apiHandler.CreateJobHandler)
		jobRoutes.PUT("/:id", requireAdmin, apiHandler.UpdateJobHandler)
		jobRoutes.DELETE("/:id", requireAdmin, apiHandler.DeleteJobHandler)
	}

	// Autocomplete routes
	suggestionRoutes := router.Group("/api/suggestions")
	{
		suggestionRoutes.GET("", apiHandler.SuggestHandler)
		suggestionRoutes.GET("/locations", apiHandler.SuggestLocationsHandler)
	}

	// Admin routes
	adminRoutes := router.Group("/api/admin", requireAdmin)
	{
		adminRoutes.GET("/jobs", apiHandler.AdminBrowseJobsHandler)
		adminRoutes.POST("/jobs/import", apiHandler.ImportJobsHandler)
	}

	// Auth routes
	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/register", apiHandler.registrationGate(), apiHandler.RegisterHandler)
		authRoutes.POST("/login", apiHandler.LoginHandler)
		authRoutes.POST("/validate", apiHandler.ValidateTokenHandler)
		authRoutes.POST("/logout", requireAdmin, apiHandler.LogoutHandler)
	}

	// Analytics routes: recording is public, reports are admin only
	analyticsRoutes := router.Group("/api/analytics")
	{
		analyticsRoutes.POST("/view/website", apiHandler.RecordWebsiteViewHandler)
		analyticsRoutes.POST("/view/job/:id", apiHandler.RecordJobViewHandler)
		analyticsRoutes.POST("/apply/job/:id", apiHandler.RecordJobApplyHandler)
		analyticsRoutes.POST("/search", apiHandler.RecordSearchHandler)

		analyticsRoutes.GET("/website", requireAdmin, apiHandler.WebsiteStatsHandler)
		analyticsRoutes.GET("/job/:id", requireAdmin, apiHandler.JobStatsHandler)
		analyticsRoutes.GET("/searches/top", requireAdmin, apiHandler.TopSearchesHandler)
		analyticsRoutes.GET("/historical", requireAdmin, apiHandler.HistoryHandler)
	}

	return nil
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "findmyjob",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
