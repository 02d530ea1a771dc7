package dto

import (
	"time"

	"github.com/softdesk/support-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        models.ProjectType `json:"type"`
	Author      UserDTO            `json:"author"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ProjectDetailDTO represents a project with its contributors
type ProjectDetailDTO struct {
	ProjectDTO
	Contributors []ContributorDTO `json:"contributors"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
}

// ToProjectDTO converts a project to DTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Type:        project.Type,
		Author:      UserDTO{ID: project.AuthorID, Username: project.Author.Username},
		CreatedAt:   project.CreatedAt,
	}
}

// ToProjectDetailDTO converts a project with contributors to a detailed DTO
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	contributors := make([]ContributorDTO, len(project.Contributors))
	for i, contributor := range project.Contributors {
		contributors[i] = ToContributorDTO(contributor)
	}
	return ProjectDetailDTO{
		ProjectDTO:   ToProjectDTO(project),
		Contributors: contributors,
	}
}

// ToProjectListResponse converts projects to a paginated list response
func ToProjectListResponse(projects []models.Project, page, pageSize int, total int64) ProjectListResponse {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return ProjectListResponse{
		Projects:   dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
}
