package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *model.User, profile model.Profile) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	SetActive(ctx context.Context, id uint, active bool) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	CountActiveByRole(ctx context.Context) (map[model.Role]int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateWithProfile inserts a user and its role profile in one transaction.
// Either both rows exist afterwards or neither does.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *model.User, profile model.Profile) error {
	if profile == nil || profile.ProfileRole() != user.Role {
		return fmt.Errorf("profile does not match role %q", user.Role)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}
		profile.Bind(user)
		if err := tx.Omit(clause.Associations).Create(profile).Error; err != nil {
			return fmt.Errorf("create %s profile: %w", user.Role, err)
		}
		return nil
	})
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	err := saveAll(r.db.WithContext(ctx), user, "password_hash", "date_joined").Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrEmailTaken
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CountActiveByRole(ctx context.Context) (map[model.Role]int64, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("role AS label, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[model.Role]int64, len(model.Roles))
	for _, role := range model.Roles {
		out[role] = 0
	}
	for _, row := range rows {
		out[model.Role(row.Label)] = row.Total
	}
	return out, nil
}

type countRow struct {
	Label string
	Total int64
}

// saveAll writes every column of value, zero values included, except omit.
// Unlike Save it never falls back to an insert when nothing changed.
func saveAll(tx *gorm.DB, value any, omit ...string) *gorm.DB {
	return tx.Model(value).Select("*").Omit(append([]string{clause.Associations}, omit...)...).Updates(value)
}
