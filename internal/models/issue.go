package models

import "time"

type IssuePriority string

const (
	PriorityLow    IssuePriority = "LOW"
	PriorityMedium IssuePriority = "MEDIUM"
	PriorityHigh   IssuePriority = "HIGH"
)

type IssueTag string

const (
	TagBug     IssueTag = "BUG"
	TagFeature IssueTag = "FEATURE"
	TagTask    IssueTag = "TASK"
)

type IssueStatus string

const (
	StatusTodo       IssueStatus = "TODO"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusFinished   IssueStatus = "FINISHED"
)

type Issue struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Priority    IssuePriority `gorm:"type:varchar(10);not null" json:"priority"`
	Tag         IssueTag      `gorm:"type:varchar(10);not null" json:"tag"`
	Status      IssueStatus   `gorm:"type:varchar(15);not null;default:'TODO'" json:"status"`
	ProjectID   uint64        `gorm:"not null" json:"project_id"`
	AuthorID    uint64        `gorm:"not null" json:"author_id"`
	AssigneeID  *uint64       `json:"assignee_id"`
	CreatedAt   time.Time     `json:"created_at"`

	// Relations
	Project  Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Author   User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Comments []Comment `gorm:"foreignKey:IssueID" json:"comments,omitempty"`
}

// OwningProjectID makes Issue usable in object-level permission checks.
func (i Issue) OwningProjectID() uint64 { return i.ProjectID }

// ObjectAuthorID returns the issue author for authorship checks.
func (i Issue) ObjectAuthorID() uint64 { return i.AuthorID }
