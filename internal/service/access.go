package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"facilityaudit/internal/cache"
	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

const (
	userCacheTTL  = 5 * time.Minute
	statsCacheTTL = 30 * time.Second
	statsCacheKey = "dashboard:stats"
)

var phonePattern = regexp.MustCompile(`^\+?\d{9,15}$`)

// requireRole returns ErrForbidden unless actor holds one of roles.
func requireRole(actor *model.User, roles ...model.Role) error {
	if actor == nil || !actor.IsActive || !actor.HasRole(roles...) {
		return apperrors.ErrForbidden
	}
	return nil
}

// ownerScope returns nil for callers who see every inspection, otherwise the
// caller's id so queries are limited to rows they created.
func ownerScope(actor *model.User) *uint {
	if actor.SeesAllInspections() {
		return nil
	}
	id := actor.ID
	return &id
}

// validateUserFields checks the editable user attributes.
func validateUserFields(u *model.User) *apperrors.ValidationError {
	v := &apperrors.ValidationError{}
	if strings.TrimSpace(u.FirstName) == "" {
		v.Add("first_name", "This field is required.")
	} else if containsDigit(u.FirstName) {
		v.Add("first_name", "First name should not contain numbers.")
	}
	if strings.TrimSpace(u.LastName) == "" {
		v.Add("last_name", "This field is required.")
	} else if containsDigit(u.LastName) {
		v.Add("last_name", "Last name should not contain numbers.")
	}
	if u.PhoneNumber != "" && !phonePattern.MatchString(u.PhoneNumber) {
		v.Add("phone_number", "Enter a valid phone number (9 to 15 digits, optional leading +).")
	}
	if len([]rune(u.Bio)) > 300 {
		v.Add("bio", "Bio cannot exceed 300 characters.")
	}
	if u.City != "" && u.State == "" {
		v.Add("state", "State is required if city is provided.")
	}
	if v.Empty() {
		return nil
	}
	return v
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type userCache struct {
	cache *cache.Client
}

func (c userCache) key(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (c userCache) get(ctx context.Context, id uint) (*model.User, bool) {
	var user model.User
	if !c.cache.GetJSON(ctx, c.key(id), &user) {
		return nil, false
	}
	return &user, true
}

func (c userCache) set(ctx context.Context, user *model.User) {
	c.cache.SetJSON(ctx, c.key(user.ID), user, userCacheTTL)
}

func (c userCache) invalidate(ctx context.Context, id uint) {
	_ = c.cache.Delete(ctx, c.key(id), statsCacheKey)
}
