package repository

import (
	"github.com/softdesk/support-api/internal/database"
	"github.com/softdesk/support-api/internal/models"
	"gorm.io/gorm"
)

// GormContributorRepository is a GORM implementation of ContributorRepository
type GormContributorRepository struct {
	db *gorm.DB
}

// NewContributorRepository creates a new ContributorRepository
func NewContributorRepository(db *gorm.DB) ContributorRepository {
	return &GormContributorRepository{db: db}
}

// Create adds a contributor to a project
func (r *GormContributorRepository) Create(contributor *models.Contributor) error {
	return r.db.Create(contributor).Error
}

// FindByID finds a contributor by ID with optional preloading
func (r *GormContributorRepository) FindByID(id uint64, preload ...string) (*models.Contributor, error) {
	var contributor models.Contributor
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&contributor, id).Error; err != nil {
		return nil, err
	}

	return &contributor, nil
}

// Find finds the contributor record for a (project, user) pair
func (r *GormContributorRepository) Find(projectID, userID uint64) (*models.Contributor, error) {
	var contributor models.Contributor
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&contributor).Error; err != nil {
		return nil, err
	}
	return &contributor, nil
}

// ListForAuthor retrieves contributors of projects the user authors
func (r *GormContributorRepository) ListForAuthor(authorID uint64, page, pageSize int) ([]models.Contributor, int64, error) {
	var contributors []models.Contributor

	query := r.db.Model(&models.Contributor{}).
		Joins("JOIN projects ON projects.id = contributors.project_id").
		Where("projects.author_id = ?", authorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(page, pageSize)).
		Preload("User").Preload("Project").
		Order("contributors.id").Find(&contributors).Error; err != nil {
		return nil, 0, err
	}

	return contributors, total, nil
}

// Delete removes a contributor record
func (r *GormContributorRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Contributor{}, id).Error
}
