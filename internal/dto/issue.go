package dto

import (
	"time"

	"github.com/softdesk/support-api/internal/models"
)

// IssueDTO represents an issue in API responses
type IssueDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Priority    models.IssuePriority `json:"priority"`
	Tag         models.IssueTag      `json:"tag"`
	Status      models.IssueStatus   `json:"status"`
	ProjectID   uint64               `json:"project_id"`
	Author      UserDTO              `json:"author"`
	Assignee    *UserDTO             `json:"assignee,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// IssueListResponse represents a paginated list of issues
type IssueListResponse struct {
	Issues     []IssueDTO `json:"issues"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
}

// ToIssueDTO converts an issue to DTO
func ToIssueDTO(issue models.Issue) IssueDTO {
	dto := IssueDTO{
		ID:          issue.ID,
		Title:       issue.Title,
		Description: issue.Description,
		Priority:    issue.Priority,
		Tag:         issue.Tag,
		Status:      issue.Status,
		ProjectID:   issue.ProjectID,
		Author:      UserDTO{ID: issue.AuthorID, Username: issue.Author.Username},
		CreatedAt:   issue.CreatedAt,
	}
	if issue.AssigneeID != nil {
		assignee := UserDTO{ID: *issue.AssigneeID}
		if issue.Assignee != nil {
			assignee.Username = issue.Assignee.Username
		}
		dto.Assignee = &assignee
	}
	return dto
}

// ToIssueListResponse converts issues to a paginated list response
func ToIssueListResponse(issues []models.Issue, page, pageSize int, total int64) IssueListResponse {
	dtos := make([]IssueDTO, len(issues))
	for i, issue := range issues {
		dtos[i] = ToIssueDTO(issue)
	}
	return IssueListResponse{
		Issues:     dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
}
