package models

import "time"

type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	IssueID     uint64    `gorm:"not null" json:"issue_id"`
	AuthorID    uint64    `gorm:"not null" json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Issue  Issue `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
	Author User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// OwningProjectID derives the project through the comment's issue. The Issue
// relation must be loaded before an object-level permission check.
func (c Comment) OwningProjectID() uint64 { return c.Issue.ProjectID }

// ObjectAuthorID returns the comment author for authorship checks.
func (c Comment) ObjectAuthorID() uint64 { return c.AuthorID }
