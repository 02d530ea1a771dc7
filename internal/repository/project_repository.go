package repository

import (
	"errors"
	"fmt"

	"github.com/softdesk/support-api/internal/database"
	"github.com/softdesk/support-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateProject is returned when creating a project fails inside the creation transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateAuthorContributor is returned when creating the author's contributor record fails.
	ErrCreateAuthorContributor = errors.New("project repository: create author contributor failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithAuthorContributor creates the project and the author's contributor
// record atomically, so the author is a contributor of their own project from
// the moment the project exists.
func (r *GormProjectRepository) CreateWithAuthorContributor(project *models.Project, contributor *models.Contributor) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		contributor.ProjectID = project.ID
		contributor.UserID = project.AuthorID

		if err := tx.Create(contributor).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateAuthorContributor, err)
		}

		return nil
	})
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListForUser retrieves projects the user authors or contributes to
func (r *GormProjectRepository) ListForUser(userID uint64, page, pageSize int) ([]models.Project, int64, error) {
	var projects []models.Project

	contributorSubQuery := r.db.Model(&models.Contributor{}).
		Select("1").
		Where("contributors.project_id = projects.id").
		Where("contributors.user_id = ?", userID)

	query := r.db.Model(&models.Project{}).
		Where("projects.author_id = ? OR EXISTS (?)", userID, contributorSubQuery)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(page, pageSize)).
		Preload("Author").Order("projects.id").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and everything it owns in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deleteProjectCascade(tx, id)
	})
}

// deleteProjectCascade removes a project's comments, issues and contributors
// before the project itself. Must run inside a transaction.
func deleteProjectCascade(tx *gorm.DB, projectID uint64) error {
	var issueIDs []uint64
	if err := tx.Model(&models.Issue{}).
		Where("project_id = ?", projectID).
		Pluck("id", &issueIDs).Error; err != nil {
		return err
	}

	if len(issueIDs) > 0 {
		if err := tx.Where("issue_id IN ?", issueIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", issueIDs).Delete(&models.Issue{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.Contributor{}).Error; err != nil {
		return err
	}

	return tx.Delete(&models.Project{}, projectID).Error
}
