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
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentEmpty    = errors.New("comment description cannot be empty")
)

// CommentPage is the payload cached for comment list requests.
type CommentPage struct {
	Comments []models.Comment `json:"comments"`
	Total    int64            `json:"total"`
}

// CommentService provides business logic for comments on issues. Creation is
// open to contributors of the issue's project; further mutation is restricted
// to the comment's author.
type CommentService struct {
	commentRepo    repository.CommentRepository
	contributor    permissions.Contributor
	resourceAuthor permissions.ResourceAuthorOrReadOnly
	lists          *cache.ListCache
	invalidator    *cache.Invalidator
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, resolver permissions.Resolver, lists *cache.ListCache, invalidator *cache.Invalidator) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		contributor: permissions.Contributor{Store: resolver},
		lists:       lists,
		invalidator: invalidator,
	}
}

// CreateCommentInput represents parameters to create a comment.
type CreateCommentInput struct {
	Description string
	IssueID     uint64
}

// List returns comments on issues of projects the actor contributes to,
// served from the versioned cache when possible.
func (s *CommentService) List(ctx context.Context, rc permissions.Context, page, pageSize int) (*CommentPage, error) {
	if err := s.contributor.Check(rc, nil); err != nil {
		return nil, err
	}

	var cached CommentPage
	if s.lists.Get(ctx, cache.ResourceComments, rc.ActorID, page, pageSize, &cached) {
		return &cached, nil
	}

	comments, total, err := s.commentRepo.ListForUser(rc.ActorID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	result := &CommentPage{Comments: comments, Total: total}
	s.lists.Set(ctx, cache.ResourceComments, rc.ActorID, page, pageSize, result)
	return result, nil
}

// Get returns a single comment; the actor must contribute to the project of
// the comment's issue.
func (s *CommentService) Get(rc permissions.Context, id uint64) (*models.Comment, error) {
	comment, err := s.findComment(id, "Issue", "Author")
	if err != nil {
		return nil, err
	}

	if err := s.contributor.CheckObject(rc, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Create creates a comment authored by the actor on an issue whose project
// they contribute to. The project is resolved through the issue reference; a
// reference that does not resolve is a denial, not a lookup fault.
func (s *CommentService) Create(ctx context.Context, rc permissions.Context, input CreateCommentInput) (*models.Comment, error) {
	if err := s.contributor.Check(rc, nil); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrCommentEmpty
	}

	comment := &models.Comment{
		Description: input.Description,
		IssueID:     input.IssueID,
		AuthorID:    rc.ActorID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	created, err := s.findComment(comment.ID, "Issue")
	if err != nil {
		return nil, err
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityComment, created.Issue.ProjectID); err != nil {
		logInvalidation(err)
	}
	return created, nil
}

// Update modifies a comment; only its author may do so.
func (s *CommentService) Update(ctx context.Context, rc permissions.Context, id uint64, description string) (*models.Comment, error) {
	comment, err := s.findComment(id, "Issue")
	if err != nil {
		return nil, err
	}

	if err := s.resourceAuthor.CheckObject(rc, comment); err != nil {
		return nil, err
	}

	if strings.TrimSpace(description) == "" {
		return nil, ErrCommentEmpty
	}
	comment.Description = description

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityComment, comment.Issue.ProjectID); err != nil {
		logInvalidation(err)
	}
	return comment, nil
}

// Delete removes a comment; only its author may do so.
func (s *CommentService) Delete(ctx context.Context, rc permissions.Context, id uint64) error {
	comment, err := s.findComment(id, "Issue")
	if err != nil {
		return err
	}

	if err := s.resourceAuthor.CheckObject(rc, comment); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if err := s.invalidator.ObjectMutated(ctx, cache.EntityComment, comment.Issue.ProjectID); err != nil {
		logInvalidation(err)
	}
	return nil
}

func (s *CommentService) findComment(id uint64, preload ...string) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}
