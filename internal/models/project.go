package models

import "time"

type ProjectType string

const (
	ProjectTypeBackend  ProjectType = "BACKEND"
	ProjectTypeFrontend ProjectType = "FRONTEND"
	ProjectTypeIOS      ProjectType = "IOS"
	ProjectTypeAndroid  ProjectType = "ANDROID"
)

type Project struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Type        ProjectType `gorm:"type:varchar(10);not null" json:"type"`
	AuthorID    uint64      `gorm:"not null" json:"author_id"`
	CreatedAt   time.Time   `json:"created_at"`

	// Relations
	Author       User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Contributors []Contributor `gorm:"foreignKey:ProjectID" json:"contributors,omitempty"`
	Issues       []Issue       `gorm:"foreignKey:ProjectID" json:"issues,omitempty"`
}

// OwningProjectID makes Project usable in object-level permission checks.
func (p Project) OwningProjectID() uint64 { return p.ID }

// ObjectAuthorID returns the project author for authorship checks.
func (p Project) ObjectAuthorID() uint64 { return p.AuthorID }
