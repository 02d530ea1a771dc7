package repository

import (
	"github.com/softdesk/support-api/internal/database"
	"github.com/softdesk/support-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with pagination
func (r *GormUserRepository) List(page, pageSize int) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(database.Paginate(page, pageSize)).
		Order("users.id").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// TouchedProjectIDs returns the IDs of every project holding records that
// deleting the user would remove: projects they authored, projects they
// contribute to and projects where they wrote issues or comments.
func (r *GormUserRepository) TouchedProjectIDs(id uint64) ([]uint64, error) {
	var authored, member, issues, comments []uint64

	if err := r.db.Model(&models.Project{}).
		Where("author_id = ?", id).
		Pluck("id", &authored).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Contributor{}).
		Where("user_id = ?", id).
		Pluck("project_id", &member).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Issue{}).
		Where("author_id = ?", id).
		Pluck("project_id", &issues).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Comment{}).
		Joins("JOIN issues ON issues.id = comments.issue_id").
		Where("comments.author_id = ?", id).
		Pluck("issues.project_id", &comments).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{})
	var projectIDs []uint64
	for _, batch := range [][]uint64{authored, member, issues, comments} {
		for _, projectID := range batch {
			if _, ok := seen[projectID]; !ok {
				seen[projectID] = struct{}{}
				projectIDs = append(projectIDs, projectID)
			}
		}
	}
	return projectIDs, nil
}

// Delete removes a user and everything they authored. Issues merely assigned
// to them survive with the assignee cleared.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Issue{}).
			Where("assignee_id = ?", id).
			Update("assignee_id", nil).Error; err != nil {
			return err
		}

		// Projects the user authored go away entirely, children first.
		var projectIDs []uint64
		if err := tx.Model(&models.Project{}).
			Where("author_id = ?", id).
			Pluck("id", &projectIDs).Error; err != nil {
			return err
		}
		for _, projectID := range projectIDs {
			if err := deleteProjectCascade(tx, projectID); err != nil {
				return err
			}
		}

		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		var issueIDs []uint64
		if err := tx.Model(&models.Issue{}).
			Where("author_id = ?", id).
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

		if err := tx.Where("user_id = ?", id).Delete(&models.Contributor{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
