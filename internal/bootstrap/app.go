package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-platform/internal/auth"
	"resume-platform/internal/resumes"
	"resume-platform/internal/shared/config"
	"resume-platform/internal/shared/server"
	"resume-platform/internal/shared/server/middleware"
	"resume-platform/internal/shared/storage/db"
	"resume-platform/internal/shared/storage/object"
	localstore "resume-platform/internal/shared/storage/object/local"
	s3store "resume-platform/internal/shared/storage/object/s3"
	"resume-platform/internal/uploads"
	"resume-platform/internal/users"
)

// App holds the wired application dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ResumeRepo resumes.Repo
	UserRepo   users.Repo

	ResumeService *resumes.Service
	UserService   *users.Service

	ResumeHandler *resumes.Handler
	UserHandler   *users.Handler
	UploadHandler *uploads.Handler
	GoogleAuth    *googleauth.GoogleService
}

// Build wires repositories, services, handlers and the router. In dev
// environments a missing or unreachable database degrades to in-memory
// repositories instead of failing startup.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if app.DB != nil {
		app.ResumeRepo = resumes.NewPGRepo(app.DB)
		app.UserRepo = users.NewPGRepo(app.DB)
	} else {
		app.ResumeRepo = resumes.NewMemoryRepo()
		app.UserRepo = users.NewMemoryRepo()
	}

	app.ResumeService = resumes.NewService(app.ResumeRepo)
	app.UserService = users.NewService(app.UserRepo)

	app.ResumeHandler = resumes.NewHandler(app.ResumeService)
	app.UserHandler = users.NewHandler(app.UserService)
	app.UploadHandler = uploads.NewHandler(app.Store)
	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.UserService,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ResumeHandler: app.ResumeHandler,
		UserHandler:   app.UserHandler,
		UploadHandler: app.UploadHandler,
		GoogleAuth:    app.GoogleAuth,
		RateLimit:     defaultRateLimit(),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func defaultRateLimit() *middleware.RateLimitConfig {
	return &middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"write":  {Rate: 5, Burst: 20},
			"read":   {Rate: 20, Burst: 60},
			"public": {Rate: 2, Burst: 10},
		},
		DefaultGroup: "read",
		GroupFor: func(c *gin.Context) string {
			if strings.HasPrefix(c.Request.URL.Path, "/api/v1/public/") {
				return "public"
			}
			switch c.Request.Method {
			case "GET", "HEAD", "OPTIONS":
				return "read"
			default:
				return "write"
			}
		},
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
