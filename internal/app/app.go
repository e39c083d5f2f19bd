// Package app assembles repositories, services and handlers into an HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"facilityaudit/internal/auth"
	"facilityaudit/internal/cache"
	"facilityaudit/internal/config"
	"facilityaudit/internal/handler"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/metrics"
	"facilityaudit/internal/middleware"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
	"facilityaudit/internal/router"
	"facilityaudit/internal/service"
)

// App is the wired HTTP application.
type App struct {
	Echo    *echo.Echo
	Metrics *metrics.Metrics
	log     logger.Logger
}

// New builds the application on top of an open database and cache.
func New(cfg *config.Config, gormDB *gorm.DB, cacheClient *cache.Client, log logger.Logger) (*App, error) {
	m := metrics.New()

	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit, "login", cacheClient.Redis())
	if err != nil && cacheClient.Redis() != nil {
		log.Warn("redis rate limit store unavailable, counting in memory", "error", err)
		loginLimiter, err = middleware.NewLimiter(cfg.LoginRateLimit, "login", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("login rate limiter: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	inspectionRepo := repository.NewInspectionRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	inspectionService := service.NewInspectionService(inspectionRepo, cacheClient, m)
	dashboardService := service.NewDashboardService(inspectionRepo, userRepo, cacheClient)

	policies := service.DefaultProfilePolicies()
	resources := []router.Mounter{
		checklist[model.FireAlarmChecklist](gormDB, "fire-alarm", cacheClient, m),
		checklist[model.SmokeAlarmChecklist](gormDB, "smoke-alarm", cacheClient, m),
		checklist[model.HealthSafetyChecklist](gormDB, "health-safety", cacheClient, m),
		checklist[model.MedicationComprehensiveChecklist](gormDB, "medication-comprehensive", cacheClient, m),
		checklist[model.WeeklyMedicationAuditChecklist](gormDB, "weekly-medication-audit", cacheClient, m),
		checklist[model.FirstAidChecklist](gormDB, "first-aid", cacheClient, m),
		profile[model.InspectorProfile](gormDB, "/inspectors", policies[model.RoleInspector], userRepo, cacheClient),
		profile[model.AdminProfile](gormDB, "/admins", policies[model.RoleAdmin], userRepo, cacheClient),
		profile[model.WorkerProfile](gormDB, "/workers", policies[model.RoleWorker], userRepo, cacheClient),
		profile[model.ClientProfile](gormDB, "/clients", policies[model.RoleClient], userRepo, cacheClient),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, router.Deps{
		JWT:          jwtService,
		Tokens:       tokenStore,
		Users:        userService,
		LoginLimiter: loginLimiter,
		Metrics:      m,
		Log:          log,
	}, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Users:       handler.NewUserHandler(userService),
		Inspections: handler.NewInspectionHandler(inspectionService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Resources:   resources,
	})

	return &App{Echo: e, Metrics: m, log: log}, nil
}

func checklist[T any, P repository.ChecklistPtr[T]](gormDB *gorm.DB, slug string, cacheClient *cache.Client, m *metrics.Metrics) router.Mounter {
	repo := repository.NewChecklistRepository[T, P](gormDB)
	return handler.NewChecklistHandler[T, P]("/"+slug, service.NewChecklistService[P](slug, repo, cacheClient, m))
}

func profile[T any, P repository.ProfilePtr[T]](gormDB *gorm.DB, prefix string, policy service.ProfilePolicy, users repository.UserRepository, cacheClient *cache.Client) router.Mounter {
	repo := repository.NewProfileRepository[T, P](gormDB)
	return handler.NewProfileHandler[T, P](prefix, service.NewProfileService[P](policy, users, repo, cacheClient))
}

// Start serves HTTP on addr until Shutdown is called.
func (a *App) Start(addr string) error {
	a.log.Info("server listening", "addr", addr)
	if err := a.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server start: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}
