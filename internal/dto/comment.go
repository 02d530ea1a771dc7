package dto

import (
	"time"

	"github.com/softdesk/support-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID          uint64    `json:"id"`
	Description string    `json:"description"`
	IssueID     uint64    `json:"issue_id"`
	Author      UserDTO   `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentListResponse represents a paginated list of comments
type CommentListResponse struct {
	Comments   []CommentDTO `json:"comments"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
}

// ToCommentDTO converts a comment to DTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:          comment.ID,
		Description: comment.Description,
		IssueID:     comment.IssueID,
		Author:      UserDTO{ID: comment.AuthorID, Username: comment.Author.Username},
		CreatedAt:   comment.CreatedAt,
	}
}

// ToCommentListResponse converts comments to a paginated list response
func ToCommentListResponse(comments []models.Comment, page, pageSize int, total int64) CommentListResponse {
	dtos := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		dtos[i] = ToCommentDTO(comment)
	}
	return CommentListResponse{
		Comments:   dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
}
