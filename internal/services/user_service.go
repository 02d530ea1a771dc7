package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/softdesk/support-api/internal/cache"
	"github.com/softdesk/support-api/internal/constants"
	"github.com/softdesk/support-api/internal/models"
	"github.com/softdesk/support-api/internal/permissions"
	"github.com/softdesk/support-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUsernameRequired     = errors.New("username is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrUserTooYoung         = errors.New("user must be at least 15 years old")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// UserService provides account management gated by the self-or-create policy.
type UserService struct {
	userRepo    repository.UserRepository
	selfOnly    permissions.SelfOrCreateOnly
	invalidator *cache.Invalidator
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, invalidator *cache.Invalidator) *UserService {
	return &UserService{
		userRepo:    userRepo,
		invalidator: invalidator,
	}
}

// CreateUserInput represents the information needed to open an account.
type CreateUserInput struct {
	Username        string
	Email           string
	Password        string
	Age             *int
	CanBeContacted  bool
	CanDataBeShared bool
}

// UpdateUserInput represents a partial account update.
type UpdateUserInput struct {
	Email           *string
	Password        *string
	Age             *int
	CanBeContacted  *bool
	CanDataBeShared *bool
}

// Create opens a new account. Anyone, including anonymous callers, may do so.
func (s *UserService) Create(rc permissions.Context, input CreateUserInput) (*models.User, error) {
	if err := s.selfOnly.Check(rc); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Age != nil && *input.Age < models.MinUserAge {
		return nil, ErrUserTooYoung
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:        username,
		Email:           input.Email,
		PasswordHash:    string(hashedPassword),
		Age:             input.Age,
		CanBeContacted:  input.CanBeContacted,
		CanDataBeShared: input.CanDataBeShared,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// List returns all accounts, paged. Requires authentication.
func (s *UserService) List(rc permissions.Context, page, pageSize int) ([]models.User, int64, error) {
	if err := s.selfOnly.Check(rc); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Get returns an account; only the account owner may read it.
func (s *UserService) Get(rc permissions.Context, id uint64) (*models.User, error) {
	if err := s.selfOnly.Check(rc); err != nil {
		return nil, err
	}
	if err := s.selfOnly.CheckObject(rc, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Update applies a partial update; only the account owner may do so.
func (s *UserService) Update(rc permissions.Context, id uint64, input UpdateUserInput) (*models.User, error) {
	if err := s.selfOnly.Check(rc); err != nil {
		return nil, err
	}
	if err := s.selfOnly.CheckObject(rc, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Email != nil {
		if strings.TrimSpace(*input.Email) == "" {
			return nil, ErrEmailRequired
		}
		user.Email = *input.Email
	}
	if input.Age != nil {
		if *input.Age < models.MinUserAge {
			return nil, ErrUserTooYoung
		}
		user.Age = input.Age
	}
	if input.CanBeContacted != nil {
		user.CanBeContacted = *input.CanBeContacted
	}
	if input.CanDataBeShared != nil {
		user.CanDataBeShared = *input.CanDataBeShared
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes an account; only the account owner may do so. The cascade
// takes the user's authored projects with it, but also their memberships,
// issues and comments in other users' projects, so every touched project's
// audience is invalidated.
func (s *UserService) Delete(ctx context.Context, rc permissions.Context, id uint64) error {
	if err := s.selfOnly.Check(rc); err != nil {
		return err
	}
	if err := s.selfOnly.CheckObject(rc, id); err != nil {
		return err
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	projectIDs, err := s.userRepo.TouchedProjectIDs(id)
	if err != nil {
		return fmt.Errorf("failed to list affected projects: %w", err)
	}

	// Capture audiences before the cascade removes contributor rows.
	seen := make(map[uint64]struct{})
	var audience []uint64
	for _, projectID := range projectIDs {
		users, err := s.invalidator.AudienceFor(projectID)
		if err != nil {
			return fmt.Errorf("failed to resolve project audience: %w", err)
		}
		for _, userID := range users {
			if _, ok := seen[userID]; !ok {
				seen[userID] = struct{}{}
				audience = append(audience, userID)
			}
		}
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidator.InvalidateUsers(ctx, cache.EntityUser, audience)
	return nil
}
