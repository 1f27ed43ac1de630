package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	aihttp "github.com/msgtobala/user-story-generator/internal/ai/http"
	httpapi "github.com/msgtobala/user-story-generator/internal/api/http"
	"github.com/msgtobala/user-story-generator/internal/api/http/middleware"
	"github.com/msgtobala/user-story-generator/internal/auth"
	authhttp "github.com/msgtobala/user-story-generator/internal/auth/http"
	authmw "github.com/msgtobala/user-story-generator/internal/auth/middleware"
	modhttp "github.com/msgtobala/user-story-generator/internal/modules/http"
	projhttp "github.com/msgtobala/user-story-generator/internal/projects/http"
	tmplhttp "github.com/msgtobala/user-story-generator/internal/templates/http"
)

const inFlightTTL = 30 * time.Second

func BuildRouter(app *App) *gin.Engine {
	cfg := app.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader, "X-User-Id", "X-User-Email"},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(cfg.App.ServiceName, cfg.App.Version, app.DB, app.Redis)
	healthHandler.RegisterRoutes(r)
	httpapi.RegisterMetrics(r)

	api := r.Group("/api/v1")

	var authHandler *authhttp.Handler
	if app.AuthService != nil {
		authHandler = authhttp.New(app.AuthService)
		authHandler.RegisterPublic(api.Group("/auth"))
	}

	protected := api.Group("")
	if app.AuthClient != nil {
		protected.Use(authmw.FirebaseAuthMiddleware(app.AuthClient))
	} else {
		protected.Use(auth.HeaderUser())
	}
	protected.Use(middleware.InFlight(app.Redis, inFlightTTL))

	if authHandler != nil {
		authHandler.Register(protected.Group("/auth"))
	}

	templates := tmplhttp.New(app.Templates, app.Uploader)
	templates.Register(protected.Group("/templates"))
	templates.RegisterUploads(protected.Group("/attachments"))

	modhttp.New(app.Modules).Register(protected.Group("/modules"))

	projects := projhttp.New(app.Projects, app.Drafts)
	projects.Register(protected.Group("/projects"))
	projects.RegisterDrafts(protected.Group("/project-drafts"))

	aihttp.New(app.Generator).Register(protected.Group("/ai"))

	return r
}
