package services

import (
	"errors"
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/rs/zerolog"
)

var (
	userSearchFields = map[string]bool{"name": true, "email": true}
	userSortFields   = map[string]bool{"name": true, "email": true}
)

// UserService handles business logic for user accounts.
type UserService struct {
	repo   repositories.UserRepository
	hasher PasswordHasher
	events EventPublisher
	logger zerolog.Logger
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(repo repositories.UserRepository, hasher PasswordHasher, events EventPublisher, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		events: events,
		logger: logger,
	}
}

// ListUsers returns a page of users without their password digests.
func (s *UserService) ListUsers(query ListQuery) ([]models.UserView, error) {
	opts, err := query.listOptions(userSearchFields, userSortFields)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.List(opts)
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views, nil
}

// GetUser returns the projected user or ErrUserNotFound.
func (s *UserService) GetUser(id string) (*models.UserView, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	view := user.View()
	return &view, nil
}

// EmailIsRegistered reports whether any user owns email.
func (s *UserService) EmailIsRegistered(email string) (bool, error) {
	_, err := s.repo.GetByEmail(email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// CreateUser registers a user, storing only the digest of password.
func (s *UserService) CreateUser(name, email, password string) (*models.UserView, error) {
	registered, err := s.EmailIsRegistered(email)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrEmailTaken
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email, Password: digest}
	if err := s.repo.Create(user); err != nil {
		// The unique index catches registrations racing past the lookup above.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: create user: %w", ErrWriteFailed, err)
	}

	view := user.View()
	publishEvent(s.logger, s.events, EventUserCreated, map[string]interface{}{
		"id": view.ID, "name": view.Name, "email": view.Email,
	})
	return &view, nil
}

// UpdateUser replaces name and email; the password is left untouched.
func (s *UserService) UpdateUser(id, name, email string) error {
	return mutateExisting(id, s.repo.GetByID, ErrUserNotFound, func(current *models.User) error {
		if email != current.Email {
			owner, err := s.repo.GetByEmail(email)
			switch {
			case err == nil && owner.ID != current.ID:
				return ErrEmailTaken
			case err != nil && !errors.Is(err, repositories.ErrNotFound):
				return err
			}
		}

		err := s.repo.Update(id, name, email)
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrEmailTaken
		}
		if err := translateWrite("update user", err, ErrUserNotFound); err != nil {
			return err
		}

		publishEvent(s.logger, s.events, EventUserUpdated, map[string]interface{}{
			"id": id, "name": name, "email": email,
		})
		return nil
	})
}

// DeleteUser physically removes a user.
func (s *UserService) DeleteUser(id string) error {
	return mutateExisting(id, s.repo.GetByID, ErrUserNotFound, func(*models.User) error {
		if err := translateWrite("delete user", s.repo.Delete(id), ErrUserNotFound); err != nil {
			return err
		}
		publishEvent(s.logger, s.events, EventUserDeleted, map[string]interface{}{"id": id})
		return nil
	})
}

// CheckPassword reports whether candidate matches the stored digest.
func (s *UserService) CheckPassword(id, candidate string) (bool, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return false, notFoundAs(err, ErrUserNotFound)
	}
	return s.hasher.Verify(candidate, user.Password), nil
}

// ChangePassword stores a digest of password. The caller verifies the old
// password first; this method does not.
func (s *UserService) ChangePassword(id, password string) error {
	return mutateExisting(id, s.repo.GetByID, ErrUserNotFound, func(*models.User) error {
		digest, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}
		if err := translateWrite("change password", s.repo.UpdatePassword(id, digest), ErrUserNotFound); err != nil {
			return err
		}
		publishEvent(s.logger, s.events, EventUserPasswordChanged, map[string]interface{}{"id": id})
		return nil
	})
}
