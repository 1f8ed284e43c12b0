// Package router assembles the gin engine: middleware chain, probe
// endpoints and the guarded API routes.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/internal/apiserver/handler"
	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/middleware"
	"github.com/petrel-io/petrel/pkg/session"
)

// Deps carries everything the router needs. All fields are required except
// CORS, which falls back to the permissive default.
type Deps struct {
	Gate     *access.Gate
	Verifier middleware.TokenVerifier
	Sessions session.Store
	CORS     *middleware.CORSConfig

	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Role    *handler.RoleHandler
	Profile *handler.ProfileHandler
	Access  *handler.AccessHandler
	Audit   *handler.AuditHandler
	Health  *handler.HealthHandler
}

// New builds the engine with the full middleware chain and all routes.
func New(deps Deps) *gin.Engine {
	engine := gin.New()

	cors := middleware.CORS()
	if deps.CORS != nil {
		cors = middleware.CORSWithConfig(*deps.CORS)
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		cors,
		middleware.Authenticate(deps.Verifier, deps.Sessions),
	)

	engine.GET("/healthz", deps.Health.Healthz)
	engine.GET("/readyz", deps.Health.Readyz)

	// authRequired enforces the ambient policies only: authentication,
	// session ceiling, IP allowlist and access hours.
	authRequired := middleware.Guard(deps.Gate, access.Requirement{})

	auth := engine.Group("/auth")
	{
		auth.POST("/login", deps.Auth.Login)

		protected := auth.Group("", authRequired)
		{
			protected.POST("/logout", deps.Auth.Logout)
			protected.POST("/logout-others", deps.Auth.LogoutOthers)
			protected.GET("/sessions", deps.Auth.Sessions)
		}
	}

	v1 := engine.Group("/v1")
	{
		users := v1.Group("/users", middleware.RequirePermission(deps.Gate, "admin.users"))
		{
			users.POST("", deps.User.Create)
			users.GET("", deps.User.List)
			users.GET("/:username", deps.User.Get)
			users.DELETE("/:username", deps.User.Delete)
			users.POST("/:username/password", deps.User.UpdatePassword)
			users.POST("/:username/status", deps.User.SetStatus)

			users.PUT("/:username/profile", deps.Profile.Upsert)
			users.GET("/:username/profile", deps.Profile.Get)
			users.DELETE("/:username/profile", deps.Profile.Delete)
		}

		roles := v1.Group("/roles", middleware.RequirePermission(deps.Gate, "admin.roles"))
		{
			roles.POST("", deps.Role.Create)
			roles.GET("", deps.Role.List)
			roles.GET("/:code", deps.Role.Get)
			roles.PUT("/:code", deps.Role.Update)
			roles.DELETE("/:code", deps.Role.Delete)
		}

		accessGroup := v1.Group("/access", authRequired)
		{
			accessGroup.POST("/check", deps.Access.Check)
			accessGroup.GET("/permissions", deps.Access.Permissions)
			accessGroup.GET("/permissions/mine", deps.Access.MyPermissions)
		}

		audit := v1.Group("/audit", middleware.RequirePermission(deps.Gate, "admin.audit"))
		{
			audit.GET("/decisions", deps.Audit.Decisions)
		}
	}

	return engine
}
