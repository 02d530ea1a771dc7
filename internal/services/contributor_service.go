package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/softdesk/support-api/internal/cache"
	"github.com/softdesk/support-api/internal/models"
	"github.com/softdesk/support-api/internal/permissions"
	"github.com/softdesk/support-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrContributorNotFound = errors.New("contributor not found")
	ErrAlreadyContributor  = errors.New("user is already a contributor of this project")
)

// ContributorPage is the payload cached for contributor list requests.
type ContributorPage struct {
	Contributors []models.Contributor `json:"contributors"`
	Total        int64                `json:"total"`
}

// ContributorService manages project memberships. Mutations are restricted to
// the project's author.
type ContributorService struct {
	contributorRepo repository.ContributorRepository
	userRepo        repository.UserRepository
	projectAuthor   permissions.ProjectAuthor
	lists           *cache.ListCache
	invalidator     *cache.Invalidator
}

// NewContributorService creates a new ContributorService.
func NewContributorService(contributorRepo repository.ContributorRepository, userRepo repository.UserRepository, resolver permissions.Resolver, lists *cache.ListCache, invalidator *cache.Invalidator) *ContributorService {
	return &ContributorService{
		contributorRepo: contributorRepo,
		userRepo:        userRepo,
		projectAuthor:   permissions.ProjectAuthor{Store: resolver},
		lists:           lists,
		invalidator:     invalidator,
	}
}

// CreateContributorInput represents parameters to add a contributor.
type CreateContributorInput struct {
	UserID    uint64
	ProjectID uint64
}

// List returns contributors of the projects the actor authors, served from
// the versioned cache when possible.
func (s *ContributorService) List(ctx context.Context, rc permissions.Context, page, pageSize int) (*ContributorPage, error) {
	if err := s.projectAuthor.Check(rc); err != nil {
		return nil, err
	}

	var cached ContributorPage
	if s.lists.Get(ctx, cache.ResourceContributors, rc.ActorID, page, pageSize, &cached) {
		return &cached, nil
	}

	contributors, total, err := s.contributorRepo.ListForAuthor(rc.ActorID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", err)
	}

	result := &ContributorPage{Contributors: contributors, Total: total}
	s.lists.Set(ctx, cache.ResourceContributors, rc.ActorID, page, pageSize, result)
	return result, nil
}

// Create adds a user to a project; only the project author may do so. The
// (user, project) pair is unique.
func (s *ContributorService) Create(ctx context.Context, rc permissions.Context, input CreateContributorInput) (*models.Contributor, error) {
	if err := s.projectAuthor.Check(rc); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.contributorRepo.Find(input.ProjectID, input.UserID); err == nil {
		return nil, ErrAlreadyContributor
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	contributor := &models.Contributor{
		UserID:    input.UserID,
		ProjectID: input.ProjectID,
	}

	if err := s.contributorRepo.Create(contributor); err != nil {
		return nil, fmt.Errorf("failed to create contributor: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityContributor, contributor.ProjectID); err != nil {
		logInvalidation(err)
	}
	return contributor, nil
}

// Delete removes a contributor record; only the author of its project may do
// so. The project is resolved through the contributor itself.
func (s *ContributorService) Delete(ctx context.Context, rc permissions.Context, id uint64) error {
	if err := s.projectAuthor.Check(rc); err != nil {
		return err
	}

	contributor, err := s.contributorRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContributorNotFound
		}
		return fmt.Errorf("failed to find contributor: %w", err)
	}

	// The removed user still observes the change, so capture the audience
	// before the row disappears.
	audience, err := s.invalidator.AudienceFor(contributor.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to resolve project audience: %w", err)
	}

	if err := s.contributorRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete contributor: %w", err)
	}

	s.invalidator.InvalidateUsers(ctx, cache.EntityContributor, audience)
	return nil
}
