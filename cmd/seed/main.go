package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"facilityaudit/internal/auth"
	"facilityaudit/internal/config"
	"facilityaudit/internal/db"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
	"facilityaudit/internal/service"
)

// seedUser describes one account the seeder ensures exists.
type seedUser struct {
	Email     string
	Password  string
	Role      model.Role
	FirstName string
	LastName  string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Populate the facility audit database",
		SilenceUsage: true,
	}
	root.AddCommand(adminCmd(), demoCmd())
	return root
}

func adminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Create the initial administrator from ADMIN_EMAIL and ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")
			if email == "" || password == "" {
				return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
			}
			gormDB, log, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			created, err := seedUsers(cmd.Context(), repository.NewUserRepository(gormDB), log, []seedUser{
				{Email: email, Password: password, Role: model.RoleAdmin, FirstName: "System", LastName: "Administrator"},
			})
			if err != nil {
				return err
			}
			log.Info("seed completed", "users_created", created)
			return nil
		},
	}
}

func demoCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Create one user per role and a sample checklist of every type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gormDB, log, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			users := repository.NewUserRepository(gormDB)
			created, err := seedUsers(ctx, users, log, demoUsers(password))
			if err != nil {
				return err
			}
			worker, err := users.FindByEmail(ctx, "worker@example.com")
			if err != nil {
				return fmt.Errorf("load demo worker: %w", err)
			}
			checklists, err := seedChecklists(ctx, gormDB, worker)
			if err != nil {
				return err
			}
			log.Info("seed completed", "users_created", created, "checklists_created", checklists)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "Demo-pass-2024", "password for every demo account")
	return cmd
}

func demoUsers(password string) []seedUser {
	out := make([]seedUser, 0, len(model.Roles))
	for _, role := range model.Roles {
		out = append(out, seedUser{
			Email:     string(role) + "@example.com",
			Password:  password,
			Role:      role,
			FirstName: "Demo",
			LastName:  strings.ToUpper(string(role[:1])) + string(role[1:]),
		})
	}
	return out
}

func connect(ctx context.Context) (*gorm.DB, logger.Logger, error) {
	cfg := config.Load()
	logger.Init(&logger.Config{Level: logger.LogLevel(cfg.LogLevel), Output: os.Stderr, JSON: cfg.LogJSON})
	log := logger.GetDefault()

	gormDB, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseDSN, Retries: cfg.DBConnectRetries, Log: log})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, err
	}
	log.Info("database ready")
	return gormDB, log, nil
}

// seedUsers creates each missing user together with an empty role profile.
// Existing emails are left untouched.
func seedUsers(ctx context.Context, repo repository.UserRepository, log logger.Logger, users []seedUser) (int, error) {
	created := 0
	for _, su := range users {
		email := strings.ToLower(strings.TrimSpace(su.Email))
		exists, err := repo.EmailExists(ctx, email, 0)
		if err != nil {
			return created, fmt.Errorf("check %s: %w", email, err)
		}
		if exists {
			log.Info("user already exists, skipping", "email", email)
			continue
		}
		if err := auth.ValidatePassword(su.Password); err != nil {
			return created, fmt.Errorf("password for %s: %w", email, err)
		}
		hash, err := auth.HashPassword(su.Password)
		if err != nil {
			return created, err
		}
		user := &model.User{
			Email:        email,
			PasswordHash: hash,
			Role:         su.Role,
			FirstName:    su.FirstName,
			LastName:     su.LastName,
			IsActive:     true,
		}
		user.ApplyDefaults()
		if err := repo.CreateWithProfile(ctx, user, model.NewProfileFor(su.Role)); err != nil {
			return created, fmt.Errorf("create %s: %w", email, err)
		}
		log.Info("user created", "email", email, "role", su.Role)
		created++
	}
	return created, nil
}

// seedChecklists submits one pending checklist of every type as actor.
func seedChecklists(ctx context.Context, gormDB *gorm.DB, actor *model.User) (int, error) {
	location, client := "Main Building", "Demo Client"
	header := service.InspectionHeader{Location: &location, ClientName: &client}

	steps := []func() error{
		func() error {
			_, err := service.NewChecklistService("fire-alarm", repository.NewChecklistRepository[model.FireAlarmChecklist](gormDB), nil, nil).
				Create(ctx, actor, header, &model.FireAlarmChecklist{PointChecked: "CP-1", AlarmFunctional: true, CallPointsAccessible: true})
			return err
		},
		func() error {
			_, err := service.NewChecklistService("smoke-alarm", repository.NewChecklistRepository[model.SmokeAlarmChecklist](gormDB), nil, nil).
				Create(ctx, actor, header, &model.SmokeAlarmChecklist{InstalledConditionOk: true, AlarmFunctional: true})
			return err
		},
		func() error {
			_, err := service.NewChecklistService("health-safety", repository.NewChecklistRepository[model.HealthSafetyChecklist](gormDB), nil, nil).
				Create(ctx, actor, header, &model.HealthSafetyChecklist{FireDoorsKeptClosed: true, AdequateFirstAidersAvailable: true})
			return err
		},
		func() error {
			_, err := service.NewChecklistService("medication-comprehensive", repository.NewChecklistRepository[model.MedicationComprehensiveChecklist](gormDB), nil, nil).
				Create(ctx, actor, header, &model.MedicationComprehensiveChecklist{MedicationsCabinetSecurelyLocked: true})
			return err
		},
		func() error {
			_, err := service.NewChecklistService("weekly-medication-audit", repository.NewChecklistRepository[model.WeeklyMedicationAuditChecklist](gormDB), nil, nil).
				Create(ctx, actor, header, &model.WeeklyMedicationAuditChecklist{MedicationCountAccurate: true})
			return err
		},
		func() error {
			_, err := service.NewChecklistService("first-aid", repository.NewChecklistRepository[model.FirstAidChecklist](gormDB), nil, nil).
				Create(ctx, actor, header, &model.FirstAidChecklist{
					FirstAidKitLocation: "Reception",
					Items: []model.FirstAidItem{
						{ItemName: "Plasters", Quantity: 20, Available: true},
						{ItemName: "Eye wash", Quantity: 1, Available: false},
					},
				})
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			return i, fmt.Errorf("create demo checklist: %w", err)
		}
	}
	return len(steps), nil
}
