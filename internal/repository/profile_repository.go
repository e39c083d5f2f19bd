package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

// ProfilePtr constrains P to a pointer to a profile struct.
type ProfilePtr[T any] interface {
	*T
	model.Profile
}

// ProfileRepository reads and updates role profiles of active users.
type ProfileRepository[P model.Profile] interface {
	List(ctx context.Context) ([]P, error)
	FindByID(ctx context.Context, id uint) (P, error)
	Save(ctx context.Context, user *model.User, profile P) error
}

type profileRepository[T any, P ProfilePtr[T]] struct {
	db *gorm.DB
}

// NewProfileRepository builds a GORM-backed repository for one profile type.
func NewProfileRepository[T any, P ProfilePtr[T]](db *gorm.DB) ProfileRepository[P] {
	return &profileRepository[T, P]{db: db}
}

func (r *profileRepository[T, P]) activeUsers(tx *gorm.DB) *gorm.DB {
	return tx.Model(&model.User{}).Select("id").Where("is_active = ?", true)
}

func (r *profileRepository[T, P]) List(ctx context.Context) ([]P, error) {
	tx := r.db.WithContext(ctx)
	var rows []T
	err := tx.Preload("User").
		Where("user_id IN (?)", r.activeUsers(tx)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]P, len(rows))
	for i := range rows {
		out[i] = P(&rows[i])
	}
	return out, nil
}

func (r *profileRepository[T, P]) FindByID(ctx context.Context, id uint) (P, error) {
	tx := r.db.WithContext(ctx)
	profile := P(new(T))
	err := tx.Preload("User").
		Where("user_id IN (?)", r.activeUsers(tx)).
		First(profile, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var zero P
			return zero, apperrors.ErrProfileNotFound
		}
		var zero P
		return zero, err
	}
	return profile, nil
}

// Save updates the profile and its user together.
func (r *profileRepository[T, P]) Save(ctx context.Context, user *model.User, profile P) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAll(tx, user, "password_hash", "date_joined").Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("save user: %w", err)
		}
		profile.Bind(user)
		if err := saveAll(tx, profile, "created_at").Error; err != nil {
			return fmt.Errorf("save %s profile: %w", user.Role, err)
		}
		return nil
	})
}
