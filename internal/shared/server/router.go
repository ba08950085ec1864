package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-platform/internal/auth"
	"resume-platform/internal/resumes"
	"resume-platform/internal/shared/config"
	"resume-platform/internal/shared/metrics"
	"resume-platform/internal/shared/server/middleware"
	"resume-platform/internal/shared/server/respond"
	"resume-platform/internal/uploads"
	"resume-platform/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *resumes.Handler
	UserHandler   *users.Handler
	UploadHandler *uploads.Handler
	GoogleAuth    *googleauth.GoogleService
	RateLimit     *middleware.RateLimitConfig
}

// NewRouter constructs the Gin engine with middleware and routes
// registered. Public routes (health, auth, published resumes, stored
// files) skip the auth middleware; everything else requires a token.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	if deps.RateLimit != nil {
		r.Use(middleware.RateLimit(*deps.RateLimit))
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	public := api.Group("/public")
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterPublicRoutes(public)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterPublicRoutes(public)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth())
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(authed)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authed)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(authed)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
