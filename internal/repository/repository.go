package repository

import (
	"github.com/softdesk/support-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List retrieves users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// TouchedProjectIDs returns the IDs of every project holding records
	// that deleting the user would remove
	TouchedProjectIDs(id uint64) ([]uint64, error)

	// Delete removes a user along with their authored records; issues
	// assigned to them keep existing with the assignee cleared
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithAuthorContributor creates a project and the author's
	// contributor record within a single transaction
	CreateWithAuthorContributor(project *models.Project, contributor *models.Contributor) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListForUser retrieves projects the user authors or contributes to
	ListForUser(userID uint64, page, pageSize int) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and cascades to its contributors, issues and
	// their comments
	Delete(id uint64) error
}

// ContributorRepository defines the interface for contributor data access
type ContributorRepository interface {
	// Create adds a contributor to a project
	Create(contributor *models.Contributor) error

	// FindByID finds a contributor by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Contributor, error)

	// Find finds the contributor record for a (project, user) pair
	Find(projectID, userID uint64) (*models.Contributor, error)

	// ListForAuthor retrieves contributors of projects the user authors
	ListForAuthor(authorID uint64, page, pageSize int) ([]models.Contributor, int64, error)

	// Delete removes a contributor record
	Delete(id uint64) error
}

// IssueFilter holds filtering options for listing issues
type IssueFilter struct {
	ProjectID *uint64
	Status    *models.IssueStatus
	Priority  *models.IssuePriority
	Tag       *models.IssueTag
	Page      int
	PageSize  int
}

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// Create creates a new issue
	Create(issue *models.Issue) error

	// FindByID finds an issue by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Issue, error)

	// ListForUser retrieves issues of projects the user contributes to
	ListForUser(userID uint64, filter IssueFilter) ([]models.Issue, int64, error)

	// Update updates an issue
	Update(issue *models.Issue) error

	// Delete removes an issue and its comments
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// ListForUser retrieves comments on issues of projects the user contributes to
	ListForUser(userID uint64, page, pageSize int) ([]models.Comment, int64, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete removes a comment
	Delete(id uint64) error
}
