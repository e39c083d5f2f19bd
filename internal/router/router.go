package router

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/ulule/limiter/v3"

	"facilityaudit/internal/auth"
	"facilityaudit/internal/handler"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/metrics"
	"facilityaudit/internal/middleware"
	"facilityaudit/internal/model"
)

// Mounter is a resource handler that registers its own routes under Prefix.
type Mounter interface {
	Prefix() string
	Mount(g *echo.Group)
}

// Handlers groups every HTTP handler the router exposes.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Inspections *handler.InspectionHandler
	Dashboard   *handler.DashboardHandler
	Resources   []Mounter
}

// Deps carries the middleware dependencies.
type Deps struct {
	JWT          *auth.JWTService
	Tokens       auth.TokenStoreInterface
	Users        middleware.UserLoader
	LoginLimiter *limiter.Limiter
	Metrics      *metrics.Metrics
	Log          logger.Logger
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps, h Handlers) {
	e.Validator = NewValidator()

	e.Pre(echomw.AddTrailingSlashWithConfig(echomw.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/healthz" || p == "/metrics" || strings.HasPrefix(p, "/swagger")
		},
	}))
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.ContextLogger(d.Log))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	login := []echo.MiddlewareFunc{}
	if d.LoginLimiter != nil {
		login = append(login, middleware.RateLimit(d.LoginLimiter))
	}
	e.POST("/token/", h.Auth.Login, login...)
	e.POST("/token/refresh/", h.Auth.Refresh)

	// Secured routes (require a valid access token and an active user)
	secured := e.Group("", middleware.JWT(d.JWT), middleware.LoadUser(d.Users, d.Tokens))

	secured.POST("/token/logout/", h.Auth.Logout)
	secured.GET("/user/profile/", h.Users.Me)
	secured.PUT("/user/profile/", h.Users.UpdateMe)
	secured.PATCH("/user/profile/", h.Users.UpdateMe)
	secured.POST("/user/change-password/", h.Auth.ChangePassword)

	users := secured.Group("/users")
	users.GET("/", h.Users.ListUsers)
	users.POST("/", h.Users.CreateUser, middleware.RequireRoles(model.RoleAdmin))
	users.GET("/:id/", h.Users.GetUser)
	users.PUT("/:id/", h.Users.UpdateUser)
	users.PATCH("/:id/", h.Users.UpdateUser)
	users.DELETE("/:id/", h.Users.DeleteUser, middleware.RequireRoles(model.RoleAdmin))

	dashboard := secured.Group("/dashboard")
	dashboard.GET("/stats/", h.Dashboard.Stats)
	dashboard.GET("/inspection-types/", h.Dashboard.InspectionTypes)

	base := secured.Group("/base")
	base.GET("/search/", h.Inspections.Search)
	base.POST("/conduct/:id/", h.Inspections.Conduct)
	base.POST("/approve/:id/", h.Inspections.Approve)
	base.GET("/:id/", h.Inspections.Get)
	base.GET("/:id/history/", h.Inspections.History)

	for _, r := range h.Resources {
		r.Mount(secured.Group(r.Prefix()))
	}
}
