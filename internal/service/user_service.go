package service

import (
	"context"
	"fmt"
	"strings"

	"facilityaudit/internal/auth"
	"facilityaudit/internal/cache"
	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
)

// RegistrationInput carries the user half of a registration form.
type RegistrationInput struct {
	Email          string
	Password       string
	Password2      string
	Role           model.Role
	FirstName      string
	LastName       string
	PhoneNumber    string
	ProfilePicture string
	Bio            string
	Location       string
	Address        string
	City           string
	State          string
	Country        string
	Company        string
	Qualification  string
}

// UserPatch holds the user fields a caller may change. Nil fields are left untouched.
type UserPatch struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	PhoneNumber    *string `json:"phone_number"`
	ProfilePicture *string `json:"profile_picture"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	Country        *string `json:"country"`
	Company        *string `json:"company"`
	Qualification  *string `json:"qualification"`
}

func (p UserPatch) apply(u *model.User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.PhoneNumber, p.PhoneNumber)
	set(&u.ProfilePicture, p.ProfilePicture)
	set(&u.Bio, p.Bio)
	set(&u.Location, p.Location)
	set(&u.Address, p.Address)
	set(&u.City, p.City)
	set(&u.State, p.State)
	set(&u.Country, p.Country)
	set(&u.Company, p.Company)
	set(&u.Qualification, p.Qualification)
}

// UserService exposes domain operations.
type UserService interface {
	CreateUser(ctx context.Context, actor *model.User, in RegistrationInput) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetVisibleUser(ctx context.Context, actor *model.User, id uint) (*model.User, error)
	ListUsers(ctx context.Context, actor *model.User) ([]model.User, error)
	UpdateUser(ctx context.Context, actor *model.User, id uint, patch UserPatch) (*model.User, error)
	DeactivateUser(ctx context.Context, actor *model.User, id uint) error
}

type userService struct {
	repo  repository.UserRepository
	cache userCache
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: userCache{cache: cache}}
}

// CreateUser lets an admin add a user of any role. An empty profile of the
// matching role is created alongside it.
func (s *userService) CreateUser(ctx context.Context, actor *model.User, in RegistrationInput) (*model.User, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("%q is not a valid choice.", in.Role))
	}
	return registerUser(ctx, s.repo, actor, in, model.NewProfileFor(in.Role))
}

// GetUser loads a user by id through the cache. It is used to resolve the
// caller of every authenticated request.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if user, ok := s.cache.get(ctx, id); ok {
		return user, nil
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, user)
	return user, nil
}

// GetVisibleUser returns a user the actor may read: themselves, or anyone for admins and inspectors.
func (s *userService) GetVisibleUser(ctx context.Context, actor *model.User, id uint) (*model.User, error) {
	if actor.ID != id && !actor.HasRole(model.RoleAdmin, model.RoleInspector) {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := requireRole(actor, model.RoleAdmin, model.RoleInspector); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// UpdateUser applies patch to a user. Callers may edit themselves; admins may edit anyone.
func (s *userService) UpdateUser(ctx context.Context, actor *model.User, id uint, patch UserPatch) (*model.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.apply(user)
	if verr := validateUserFields(user); verr != nil {
		return nil, verr
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.cache.invalidate(ctx, id)
	return user, nil
}

// DeactivateUser disables a user and, with it, their profile. Admin only.
func (s *userService) DeactivateUser(ctx context.Context, actor *model.User, id uint) error {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.cache.invalidate(ctx, id)
	logger.FromContext(ctx).Info("user deactivated", "user_id", id, "by", actor.ID)
	return nil
}

// registerUser validates in, hashes the password and stores the user with profile atomically.
func registerUser(ctx context.Context, repo repository.UserRepository, actor *model.User, in RegistrationInput, profile model.Profile) (*model.User, error) {
	user := &model.User{
		Email:          normalizeEmail(in.Email),
		Role:           in.Role,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		ProfilePicture: in.ProfilePicture,
		Bio:            in.Bio,
		Location:       in.Location,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Country:        in.Country,
		Company:        in.Company,
		Qualification:  in.Qualification,
		IsActive:       true,
	}
	if actor != nil {
		id := actor.ID
		user.CreatedByID = &id
	}
	user.ApplyDefaults()

	verr := validateUserFields(user)
	if verr == nil {
		verr = &apperrors.ValidationError{}
	}
	if user.Email == "" {
		verr.Add("email", "This field is required.")
	}
	if in.Password != in.Password2 {
		verr.Add("password", "Password fields didn't match.")
	} else if err := auth.ValidatePassword(in.Password); err != nil {
		verr.Add("password", err.Error())
	}
	if user.Email != "" {
		exists, err := repo.EmailExists(ctx, user.Email, 0)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			verr.Add("email", apperrors.ErrEmailTaken.Fields["email"])
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	profile.ApplyDefaults()
	if err := repo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}
