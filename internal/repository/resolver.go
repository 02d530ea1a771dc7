package repository

import (
	"errors"

	"github.com/softdesk/support-api/internal/models"
	"gorm.io/gorm"
)

// GormResolver answers the relationship lookups the permission predicates and
// the cache invalidator depend on. It implements permissions.Resolver and
// cache.Audience.
type GormResolver struct {
	db *gorm.DB
}

// NewResolver creates a new GormResolver
func NewResolver(db *gorm.DB) *GormResolver {
	return &GormResolver{db: db}
}

// ProjectAuthorID returns the author of the given project. A missing project
// is reported through ok=false, never as an error.
func (r *GormResolver) ProjectAuthorID(projectID uint64) (uint64, bool, error) {
	var project models.Project
	if err := r.db.Select("id", "author_id").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return project.AuthorID, true, nil
}

// IssueProjectID returns the project an issue belongs to.
func (r *GormResolver) IssueProjectID(issueID uint64) (uint64, bool, error) {
	var issue models.Issue
	if err := r.db.Select("id", "project_id").First(&issue, issueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return issue.ProjectID, true, nil
}

// ContributorProjectID returns the project a contributor record belongs to.
func (r *GormResolver) ContributorProjectID(contributorID uint64) (uint64, bool, error) {
	var contributor models.Contributor
	if err := r.db.Select("id", "project_id").First(&contributor, contributorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return contributor.ProjectID, true, nil
}

// IsContributor reports whether the user is a contributor of the project.
func (r *GormResolver) IsContributor(projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Contributor{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// IsContributorOrAuthor reports whether the user is a contributor of the
// project or its author.
func (r *GormResolver) IsContributorOrAuthor(projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Contributor{}).
		Joins("JOIN projects ON projects.id = contributors.project_id").
		Where("contributors.project_id = ?", projectID).
		Where("contributors.user_id = ? OR projects.author_id = ?", userID, userID).
		Count(&count).Error
	return count > 0, err
}

// ProjectAudience returns the users who can observe changes to the project:
// its author plus all contributor user IDs, deduplicated.
func (r *GormResolver) ProjectAudience(projectID uint64) ([]uint64, error) {
	var project models.Project
	if err := r.db.Select("id", "author_id").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var userIDs []uint64
	if err := r.db.Model(&models.Contributor{}).
		Where("project_id = ?", projectID).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}

	audience := []uint64{project.AuthorID}
	seen := map[uint64]struct{}{project.AuthorID: {}}
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		audience = append(audience, id)
	}
	return audience, nil
}
