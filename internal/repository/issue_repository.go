package repository

import (
	"github.com/softdesk/support-api/internal/database"
	"github.com/softdesk/support-api/internal/models"
	"gorm.io/gorm"
)

// GormIssueRepository is a GORM implementation of IssueRepository
type GormIssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &GormIssueRepository{db: db}
}

// Create creates a new issue
func (r *GormIssueRepository) Create(issue *models.Issue) error {
	return r.db.Create(issue).Error
}

// FindByID finds an issue by ID with optional preloading
func (r *GormIssueRepository) FindByID(id uint64, preload ...string) (*models.Issue, error) {
	var issue models.Issue
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&issue, id).Error; err != nil {
		return nil, err
	}

	return &issue, nil
}

// ListForUser retrieves issues of projects the user contributes to
func (r *GormIssueRepository) ListForUser(userID uint64, filter IssueFilter) ([]models.Issue, int64, error) {
	var issues []models.Issue

	memberSubQuery := r.db.Model(&models.Contributor{}).
		Select("1").
		Where("contributors.project_id = issues.project_id").
		Where("contributors.user_id = ?", userID)

	query := r.db.Model(&models.Issue{}).Where("EXISTS (?)", memberSubQuery)

	if filter.ProjectID != nil {
		query = query.Where("issues.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("issues.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("issues.priority = ?", *filter.Priority)
	}
	if filter.Tag != nil {
		query = query.Where("issues.tag = ?", *filter.Tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(filter.Page, filter.PageSize)).
		Preload("Author").Preload("Assignee").
		Order("issues.id").Find(&issues).Error; err != nil {
		return nil, 0, err
	}

	return issues, total, nil
}

// Update updates an issue
func (r *GormIssueRepository) Update(issue *models.Issue) error {
	return r.db.Save(issue).Error
}

// Delete removes an issue and its comments in a transaction
func (r *GormIssueRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Issue{}, id).Error
	})
}
