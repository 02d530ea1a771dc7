package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/softdesk/support-api/internal/cache"
	"github.com/softdesk/support-api/internal/models"
	"github.com/softdesk/support-api/internal/permissions"
	"github.com/softdesk/support-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectTitleEmpty  = errors.New("project title cannot be empty")
	ErrInvalidProjectType = errors.New("invalid project type")
)

// ProjectPage is the payload cached for project list requests.
type ProjectPage struct {
	Projects []models.Project `json:"projects"`
	Total    int64            `json:"total"`
}

// ProjectService provides business logic for project operations. Every
// operation is permission-gated, and every successful mutation bumps the
// cache versions of the project's audience.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	contributor permissions.Contributor
	lists       *cache.ListCache
	invalidator *cache.Invalidator
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, resolver permissions.Resolver, lists *cache.ListCache, invalidator *cache.Invalidator) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		contributor: permissions.Contributor{Store: resolver},
		lists:       lists,
		invalidator: invalidator,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	Type        models.ProjectType
}

// UpdateProjectInput represents a partial project update.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Type        *models.ProjectType
}

func validProjectType(t models.ProjectType) bool {
	switch t {
	case models.ProjectTypeBackend, models.ProjectTypeFrontend, models.ProjectTypeIOS, models.ProjectTypeAndroid:
		return true
	}
	return false
}

// List returns the projects the actor authors or contributes to, served from
// the versioned cache when possible.
func (s *ProjectService) List(ctx context.Context, rc permissions.Context, page, pageSize int) (*ProjectPage, error) {
	if err := s.contributor.Check(rc, nil); err != nil {
		return nil, err
	}

	var cached ProjectPage
	if s.lists.Get(ctx, cache.ResourceProjects, rc.ActorID, page, pageSize, &cached) {
		return &cached, nil
	}

	projects, total, err := s.projectRepo.ListForUser(rc.ActorID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	result := &ProjectPage{Projects: projects, Total: total}
	s.lists.Set(ctx, cache.ResourceProjects, rc.ActorID, page, pageSize, result)
	return result, nil
}

// Get returns a single project; the actor must be one of its contributors.
func (s *ProjectService) Get(rc permissions.Context, id uint64) (*models.Project, error) {
	if err := s.contributor.Check(rc, nil); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(id, "Author", "Contributors", "Contributors.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.contributor.CheckObject(rc, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Create creates a project authored by the actor. The author becomes a
// contributor of their own project in the same transaction.
func (s *ProjectService) Create(ctx context.Context, rc permissions.Context, input CreateProjectInput) (*models.Project, error) {
	if err := permissions.RequireAuthenticated(rc); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrProjectTitleEmpty
	}
	if !validProjectType(input.Type) {
		return nil, ErrInvalidProjectType
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		AuthorID:    rc.ActorID,
	}
	contributor := &models.Contributor{}

	if err := s.projectRepo.CreateWithAuthorContributor(project, contributor); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityProject, project.ID); err != nil {
		logInvalidation(err)
	}
	return project, nil
}

// Update modifies a project; only its author may do so.
func (s *ProjectService) Update(ctx context.Context, rc permissions.Context, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.contributor.Check(rc, project); err != nil {
		return nil, err
	}
	if err := s.contributor.CheckObject(rc, project); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrProjectTitleEmpty
		}
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Type != nil {
		if !validProjectType(*input.Type) {
			return nil, ErrInvalidProjectType
		}
		project.Type = *input.Type
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityProject, project.ID); err != nil {
		logInvalidation(err)
	}
	return project, nil
}

// Delete removes a project and everything it owns; only its author may do so.
func (s *ProjectService) Delete(ctx context.Context, rc permissions.Context, id uint64) error {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.contributor.Check(rc, project); err != nil {
		return err
	}
	if err := s.contributor.CheckObject(rc, project); err != nil {
		return err
	}

	// The cascade removes the contributor rows, so the audience has to be
	// captured before deleting.
	audience, err := s.invalidator.AudienceFor(project.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve project audience: %w", err)
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.invalidator.InvalidateUsers(ctx, cache.EntityProject, audience)
	return nil
}
