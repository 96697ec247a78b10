package router

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/config"
	"github.com/medconsole/admin-backend/internal/handler"
	"github.com/medconsole/admin-backend/internal/middleware"
	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Admin        *handler.AdminHandler
	User         *handler.UserHandler
	Consultation *handler.ConsultationHandler
	Dashboard    *handler.DashboardHandler
	System       *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work such as rate limiter sweeps.
func SetupRouter(
	ctx context.Context,
	auth middleware.IdentityResolver,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())

	// Scrapes are already compact and the workbook is zipped.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality: 5,
		Skipper: func(c *gin.Context) bool {
			return c.Request.URL.Path == "/metrics" || strings.HasSuffix(c.Request.URL.Path, "/export")
		},
	}))

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── 0. Public Group (No Auth, Rate Limited) ───────────────────────
	intakeLimiter := middleware.NewRateLimiter(ctx, cfg.IntakeRatePerMinute, time.Minute)
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(intakeLimiter.Middleware())
	{
		publicAPI.POST("/consultations", handlers.Consultation.SubmitConsultation)
	}

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRatePerMinute, time.Minute)
	authAPI := router.Group("/api/v1/auth")
	authAPI.Use(middleware.NoStore())
	{
		authAPI.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)

		authAPI.POST("/logout", middleware.RequireAdminSession(auth), handlers.Auth.Logout)
		authAPI.GET("/me", middleware.RequireAdminSession(auth), handlers.Auth.Me)
	}

	// ─── 2. Admin Group (Session) ──────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminSession(auth), middleware.NoStore())
	{
		// Identities. Moderators may list and edit their own record; the
		// service enforces which fields.
		adminAPI.GET("/admins", handlers.Admin.ListAdmins)
		adminAPI.POST("/admins", middleware.RequireRole(model.RoleAdmin), handlers.Admin.CreateAdmin)
		adminAPI.PATCH("/admins/:id", handlers.Admin.UpdateAdmin)
		adminAPI.DELETE("/admins/:id", middleware.RequireRole(model.RoleAdmin), handlers.Admin.DeleteAdmin)

		// End users
		adminAPI.GET("/users", handlers.User.ListUsers)
		adminAPI.PATCH("/users/:id/metadata", handlers.User.UpdateUserMetadata)
		adminAPI.DELETE("/users/:id", middleware.RequireRole(model.RoleAdmin), handlers.User.DeleteUser)

		// Consultation requests
		adminAPI.GET("/consultations", handlers.Consultation.ListConsultations)
		adminAPI.GET("/consultations/export", handlers.Consultation.ExportConsultations)
		adminAPI.PATCH("/consultations/:id/status", handlers.Consultation.UpdateStatus)
		adminAPI.DELETE("/consultations/:id", handlers.Consultation.DeleteConsultation)

		// Dashboard
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)
		adminAPI.GET("/activity", handlers.Dashboard.ListActivity)
	}

	return router
}
