package dto

import (
	"time"

	"github.com/softdesk/support-api/internal/models"
)

// ContributorDTO represents a project membership in API responses
type ContributorDTO struct {
	ID        uint64    `json:"id"`
	User      UserDTO   `json:"user"`
	ProjectID uint64    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ContributorListResponse represents a paginated list of contributors
type ContributorListResponse struct {
	Contributors []ContributorDTO `json:"contributors"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	TotalCount   int64            `json:"total_count"`
}

// ToContributorDTO converts a contributor to DTO
func ToContributorDTO(contributor models.Contributor) ContributorDTO {
	return ContributorDTO{
		ID:        contributor.ID,
		User:      UserDTO{ID: contributor.UserID, Username: contributor.User.Username},
		ProjectID: contributor.ProjectID,
		CreatedAt: contributor.CreatedAt,
	}
}

// ToContributorListResponse converts contributors to a paginated list response
func ToContributorListResponse(contributors []models.Contributor, page, pageSize int, total int64) ContributorListResponse {
	dtos := make([]ContributorDTO, len(contributors))
	for i, contributor := range contributors {
		dtos[i] = ToContributorDTO(contributor)
	}
	return ContributorListResponse{
		Contributors: dtos,
		Page:         page,
		PageSize:     pageSize,
		TotalCount:   total,
	}
}
