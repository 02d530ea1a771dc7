package models

import "time"

// Contributor links a user to a project they may work on. A user contributes
// to a given project at most once.
type Contributor struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_contributors_user_project" json:"user_id"`
	ProjectID uint64    `gorm:"not null;uniqueIndex:idx_contributors_user_project" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// OwningProjectID makes Contributor usable in object-level permission checks.
func (c Contributor) OwningProjectID() uint64 { return c.ProjectID }

// ObjectAuthorID returns 0: contributors carry no author of their own.
func (c Contributor) ObjectAuthorID() uint64 { return 0 }
