package service

import (
	"context"
	"fmt"

	"facilityaudit/internal/cache"
	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
)

// ProfilePolicy lists who may register and edit users of one role.
type ProfilePolicy struct {
	Role        model.Role
	ManageRoles []model.Role
}

// DefaultProfilePolicies returns the registration rules for every role:
// admins are managed by admins, everyone else by admins and inspectors.
func DefaultProfilePolicies() map[model.Role]ProfilePolicy {
	staff := []model.Role{model.RoleAdmin, model.RoleInspector}
	return map[model.Role]ProfilePolicy{
		model.RoleAdmin:     {Role: model.RoleAdmin, ManageRoles: []model.Role{model.RoleAdmin}},
		model.RoleInspector: {Role: model.RoleInspector, ManageRoles: staff},
		model.RoleWorker:    {Role: model.RoleWorker, ManageRoles: staff},
		model.RoleClient:    {Role: model.RoleClient, ManageRoles: staff},
	}
}

// ProfileService registers and maintains users of a single role through their profile.
type ProfileService[P model.Profile] interface {
	Register(ctx context.Context, actor *model.User, in RegistrationInput, profile P) (P, error)
	List(ctx context.Context, actor *model.User) ([]P, error)
	Get(ctx context.Context, actor *model.User, id uint) (P, error)
	Update(ctx context.Context, actor *model.User, id uint, patch UserPatch, apply func(P) error) (P, error)
	Deactivate(ctx context.Context, actor *model.User, id uint) error
}

type profileService[P model.Profile] struct {
	policy   ProfilePolicy
	users    repository.UserRepository
	profiles repository.ProfileRepository[P]
	cache    userCache
}

// NewProfileService wires a ProfileService for the role in policy.
func NewProfileService[P model.Profile](policy ProfilePolicy, users repository.UserRepository, profiles repository.ProfileRepository[P], cache *cache.Client) ProfileService[P] {
	return &profileService[P]{policy: policy, users: users, profiles: profiles, cache: userCache{cache: cache}}
}

// Register creates the user and profile in one transaction.
func (s *profileService[P]) Register(ctx context.Context, actor *model.User, in RegistrationInput, profile P) (P, error) {
	var zero P
	if err := requireRole(actor, s.policy.ManageRoles...); err != nil {
		return zero, err
	}
	in.Role = s.policy.Role
	user, err := registerUser(ctx, s.users, actor, in, profile)
	if err != nil {
		return zero, err
	}
	profile.Bind(user)
	return profile, nil
}

// List returns every active profile to admins and inspectors, and only the
// caller's own profile to anyone else.
func (s *profileService[P]) List(ctx context.Context, actor *model.User) ([]P, error) {
	all, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	if actor.HasRole(model.RoleAdmin, model.RoleInspector) {
		return all, nil
	}
	own := make([]P, 0, 1)
	for _, p := range all {
		if p.Owner() != nil && p.Owner().ID == actor.ID {
			own = append(own, p)
		}
	}
	return own, nil
}

func (s *profileService[P]) Get(ctx context.Context, actor *model.User, id uint) (P, error) {
	var zero P
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !actor.HasRole(model.RoleAdmin, model.RoleInspector) && (profile.Owner() == nil || profile.Owner().ID != actor.ID) {
		return zero, apperrors.ErrProfileNotFound
	}
	return profile, nil
}

// Update edits the user and the role fields behind a profile.
func (s *profileService[P]) Update(ctx context.Context, actor *model.User, id uint, patch UserPatch, apply func(P) error) (P, error) {
	var zero P
	if err := requireRole(actor, s.policy.ManageRoles...); err != nil {
		return zero, err
	}
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return zero, err
	}
	user := profile.Owner()
	if user == nil {
		return zero, fmt.Errorf("profile %d has no user loaded", id)
	}

	if apply != nil {
		if err := apply(profile); err != nil {
			return zero, err
		}
	}
	profile.Bind(user)
	profile.ApplyDefaults()
	patch.apply(user)
	if verr := validateUserFields(user); verr != nil {
		return zero, verr
	}

	if err := s.profiles.Save(ctx, user, profile); err != nil {
		return zero, err
	}
	s.cache.invalidate(ctx, user.ID)
	return profile, nil
}

// Deactivate disables the user behind a profile. Admin only.
func (s *profileService[P]) Deactivate(ctx context.Context, actor *model.User, id uint) error {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return err
	}
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, profile.Owner().ID, false); err != nil {
		return err
	}
	s.cache.invalidate(ctx, profile.Owner().ID)
	return nil
}
