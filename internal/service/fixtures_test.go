package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"facilityaudit/internal/cache"
	"facilityaudit/internal/db/dbtest"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
)

type fixture struct {
	db          *gorm.DB
	redis       *miniredis.Miniredis
	cache       *cache.Client
	users       repository.UserRepository
	inspections repository.InspectionRepository
	fireAlarms  ChecklistService[*model.FireAlarmChecklist]
	firstAid    ChecklistService[*model.FirstAidChecklist]
	workflow    InspectionService
	seq         int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gormDB := dbtest.New(t)
	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	inspections := repository.NewInspectionRepository(gormDB)
	return &fixture{
		db:          gormDB,
		redis:       mr,
		cache:       c,
		users:       repository.NewUserRepository(gormDB),
		inspections: inspections,
		fireAlarms:  NewChecklistService("fire-alarm", repository.NewChecklistRepository[model.FireAlarmChecklist](gormDB), c, nil),
		firstAid:    NewChecklistService("first-aid", repository.NewChecklistRepository[model.FirstAidChecklist](gormDB), c, nil),
		workflow:    NewInspectionService(inspections, c, nil),
	}
}

// user stores an active user of role together with an empty profile.
func (f *fixture) user(t *testing.T, role model.Role) *model.User {
	t.Helper()
	f.seq++
	u := &model.User{
		Email:        fmt.Sprintf("%s%d@example.com", role, f.seq),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
	}
	u.ApplyDefaults()
	require.NoError(t, f.users.CreateWithProfile(context.Background(), u, model.NewProfileFor(role)))
	return u
}

func (f *fixture) fireAlarm(t *testing.T, actor *model.User, client string) *model.FireAlarmChecklist {
	t.Helper()
	created, err := f.fireAlarms.Create(context.Background(), actor, InspectionHeader{
		Location:   ptr("Block A"),
		ClientName: ptr(client),
	}, &model.FireAlarmChecklist{PointChecked: "CP-1", AlarmFunctional: true})
	require.NoError(t, err)
	return created
}

func ptr[T any](v T) *T {
	return &v
}
