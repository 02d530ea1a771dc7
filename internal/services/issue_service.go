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
	ErrIssueNotFound          = errors.New("issue not found")
	ErrIssueTitleEmpty        = errors.New("issue title cannot be empty")
	ErrInvalidPriority        = errors.New("invalid issue priority")
	ErrInvalidTag             = errors.New("invalid issue tag")
	ErrInvalidStatus          = errors.New("invalid issue status")
	ErrInvalidAssignee        = errors.New("assignee must be a contributor of the project")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoValidIssues        = errors.New("no valid issues could be created from AI output")
)

// IssuePage is the payload cached for issue list requests.
type IssuePage struct {
	Issues []models.Issue `json:"issues"`
	Total  int64          `json:"total"`
}

// IssueService provides business logic for issue operations. Creation is open
// to project contributors; further mutation is restricted to the issue's
// author. Project and author are fixed at creation.
type IssueService struct {
	issueRepo      repository.IssueRepository
	resolver       permissions.Resolver
	contributor    permissions.Contributor
	resourceAuthor permissions.ResourceAuthorOrReadOnly
	lists          *cache.ListCache
	invalidator    *cache.Invalidator
	aiService      *AIService
}

// NewIssueService creates a new IssueService. aiService may be nil, which
// disables issue generation.
func NewIssueService(issueRepo repository.IssueRepository, resolver permissions.Resolver, lists *cache.ListCache, invalidator *cache.Invalidator, aiService *AIService) *IssueService {
	return &IssueService{
		issueRepo:   issueRepo,
		resolver:    resolver,
		contributor: permissions.Contributor{Store: resolver},
		lists:       lists,
		invalidator: invalidator,
		aiService:   aiService,
	}
}

// CreateIssueInput represents parameters to create a new issue.
type CreateIssueInput struct {
	Title       string
	Description string
	Priority    models.IssuePriority
	Tag         models.IssueTag
	Status      models.IssueStatus
	ProjectID   uint64
	AssigneeID  *uint64
}

// UpdateIssueInput represents a partial issue update. Project and author are
// immutable and deliberately absent.
type UpdateIssueInput struct {
	Title         *string
	Description   *string
	Priority      *models.IssuePriority
	Tag           *models.IssueTag
	Status        *models.IssueStatus
	AssigneeID    *uint64
	ClearAssignee bool
}

func validPriority(p models.IssuePriority) bool {
	return p == models.PriorityLow || p == models.PriorityMedium || p == models.PriorityHigh
}

func validTag(t models.IssueTag) bool {
	return t == models.TagBug || t == models.TagFeature || t == models.TagTask
}

func validStatus(st models.IssueStatus) bool {
	return st == models.StatusTodo || st == models.StatusInProgress || st == models.StatusFinished
}

// List returns issues of projects the actor contributes to. Unfiltered pages
// are served from the versioned cache; filtered queries always run live.
func (s *IssueService) List(ctx context.Context, rc permissions.Context, filter repository.IssueFilter) (*IssuePage, error) {
	if err := s.contributor.Check(rc, nil); err != nil {
		return nil, err
	}

	cacheable := filter.ProjectID == nil && filter.Status == nil &&
		filter.Priority == nil && filter.Tag == nil

	if cacheable {
		var cached IssuePage
		if s.lists.Get(ctx, cache.ResourceIssues, rc.ActorID, filter.Page, filter.PageSize, &cached) {
			return &cached, nil
		}
	}

	issues, total, err := s.issueRepo.ListForUser(rc.ActorID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	result := &IssuePage{Issues: issues, Total: total}
	if cacheable {
		s.lists.Set(ctx, cache.ResourceIssues, rc.ActorID, filter.Page, filter.PageSize, result)
	}
	return result, nil
}

// Get returns a single issue; the actor must contribute to its project.
func (s *IssueService) Get(rc permissions.Context, id uint64) (*models.Issue, error) {
	issue, err := s.findIssue(id, "Author", "Assignee", "Project")
	if err != nil {
		return nil, err
	}

	if err := s.contributor.CheckObject(rc, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Create creates an issue authored by the actor in a project they contribute
// to. An assignee, when given, must also belong to the project.
func (s *IssueService) Create(ctx context.Context, rc permissions.Context, input CreateIssueInput) (*models.Issue, error) {
	if err := s.contributor.Check(rc, nil); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrIssueTitleEmpty
	}
	if !validPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}
	if !validTag(input.Tag) {
		return nil, ErrInvalidTag
	}
	if input.Status == "" {
		input.Status = models.StatusTodo
	}
	if !validStatus(input.Status) {
		return nil, ErrInvalidStatus
	}

	if input.AssigneeID != nil {
		if err := s.requireProjectMember(input.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	issue := &models.Issue{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Tag:         input.Tag,
		Status:      input.Status,
		ProjectID:   input.ProjectID,
		AuthorID:    rc.ActorID,
		AssigneeID:  input.AssigneeID,
	}

	if err := s.issueRepo.Create(issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityIssue, issue.ProjectID); err != nil {
		logInvalidation(err)
	}
	return issue, nil
}

// Update modifies an issue; only its author may do so.
func (s *IssueService) Update(ctx context.Context, rc permissions.Context, id uint64, input UpdateIssueInput) (*models.Issue, error) {
	issue, err := s.findIssue(id)
	if err != nil {
		return nil, err
	}

	if err := s.resourceAuthor.CheckObject(rc, issue); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrIssueTitleEmpty
		}
		issue.Title = *input.Title
	}
	if input.Description != nil {
		issue.Description = *input.Description
	}
	if input.Priority != nil {
		if !validPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		issue.Priority = *input.Priority
	}
	if input.Tag != nil {
		if !validTag(*input.Tag) {
			return nil, ErrInvalidTag
		}
		issue.Tag = *input.Tag
	}
	if input.Status != nil {
		if !validStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		issue.Status = *input.Status
	}
	if input.ClearAssignee {
		issue.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.requireProjectMember(issue.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
		issue.AssigneeID = input.AssigneeID
	}

	if err := s.issueRepo.Update(issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityIssue, issue.ProjectID); err != nil {
		logInvalidation(err)
	}
	return issue, nil
}

// Delete removes an issue and its comments; only its author may do so.
func (s *IssueService) Delete(ctx context.Context, rc permissions.Context, id uint64) error {
	issue, err := s.findIssue(id)
	if err != nil {
		return err
	}

	if err := s.resourceAuthor.CheckObject(rc, issue); err != nil {
		return err
	}

	if err := s.issueRepo.Delete(issue.ID); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityIssue, issue.ProjectID); err != nil {
		logInvalidation(err)
	}
	return nil
}

// GenerateFromText drafts issues from free-form text and creates them in the
// given project. The actor is gated exactly like a manual issue creation.
func (s *IssueService) GenerateFromText(ctx context.Context, rc permissions.Context, projectID uint64, text string) ([]models.Issue, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	if err := s.contributor.Check(rc, nil); err != nil {
		return nil, err
	}

	drafts, err := s.aiService.GenerateIssuesFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate issues: %w", err)
	}

	var created []models.Issue
	for _, draft := range drafts {
		priority := models.IssuePriority(draft.Priority)
		if !validPriority(priority) {
			priority = models.PriorityMedium
		}
		tag := models.IssueTag(draft.Tag)
		if !validTag(tag) {
			tag = models.TagTask
		}
		if strings.TrimSpace(draft.Title) == "" {
			continue
		}

		issue := &models.Issue{
			Title:       draft.Title,
			Description: draft.Description,
			Priority:    priority,
			Tag:         tag,
			Status:      models.StatusTodo,
			ProjectID:   projectID,
			AuthorID:    rc.ActorID,
		}
		if err := s.issueRepo.Create(issue); err != nil {
			return nil, fmt.Errorf("failed to create generated issue: %w", err)
		}
		created = append(created, *issue)
	}

	if len(created) == 0 {
		return nil, ErrAINoValidIssues
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityIssue, projectID); err != nil {
		logInvalidation(err)
	}
	return created, nil
}

func (s *IssueService) findIssue(id uint64, preload ...string) (*models.Issue, error) {
	issue, err := s.issueRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}
	return issue, nil
}

func (s *IssueService) requireProjectMember(projectID, userID uint64) error {
	member, err := s.resolver.IsContributorOrAuthor(projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify assignee membership: %w", err)
	}
	if !member {
		return ErrInvalidAssignee
	}
	return nil
}
