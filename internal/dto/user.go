package dto

import (
	"time"

	"github.com/softdesk/support-api/internal/models"
)

// UserDTO is the compact user representation embedded in other resources.
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// UserDetailDTO is the full account representation.
type UserDetailDTO struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Age             *int      `json:"age"`
	CanBeContacted  bool      `json:"can_be_contacted"`
	CanDataBeShared bool      `json:"can_data_be_shared"`
	CreatedAt       time.Time `json:"created_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO `json:"users"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

// ToUserDTO converts a user to its compact DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToUserDetailDTO converts a user to its full DTO
func ToUserDetailDTO(user models.User) UserDetailDTO {
	return UserDetailDTO{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Age:             user.Age,
		CanBeContacted:  user.CanBeContacted,
		CanDataBeShared: user.CanDataBeShared,
		CreatedAt:       user.CreatedAt,
	}
}

// ToUserListResponse converts users to a paginated list response
func ToUserListResponse(users []models.User, page, pageSize int, total int64) UserListResponse {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return UserListResponse{
		Users:      dtos,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
}
