package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/support-api/internal/dto"
	apierrors "github.com/softdesk/support-api/internal/errors"
	"github.com/softdesk/support-api/internal/permissions"
	"github.com/softdesk/support-api/internal/services"
	"github.com/softdesk/support-api/internal/utils"
)

// UserHandler coordinates user account HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser registers a new account. The endpoint is public.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username        string `json:"username" binding:"required,min=3,max=50"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required"`
		Age             *int   `json:"age"`
		CanBeContacted  bool   `json:"can_be_contacted"`
		CanDataBeShared bool   `json:"can_data_be_shared"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionCreate)
	user, err := h.userService.Create(rc, services.CreateUserInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		Age:             req.Age,
		CanBeContacted:  req.CanBeContacted,
		CanDataBeShared: req.CanDataBeShared,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDetailDTO(*user))
}

// ListUsers returns all accounts, paged.
func (h *UserHandler) ListUsers(c *gin.Context) {
	pg := utils.PageFromQuery(c)

	rc := requestContext(c, permissions.ActionList)
	users, total, err := h.userService.List(rc, pg.Number, pg.Size)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, pg.Number, pg.Size, total))
}

// GetUser returns a single account. Only the account owner may read it.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionRetrieve)
	user, err := h.userService.Get(rc, id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// UpdateUser applies a partial update to an account.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Email           *string `json:"email"`
		Password        *string `json:"password"`
		Age             *int    `json:"age"`
		CanBeContacted  *bool   `json:"can_be_contacted"`
		CanDataBeShared *bool   `json:"can_data_be_shared"`
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionUpdate)
	user, err := h.userService.Update(rc, id, services.UpdateUserInput{
		Email:           req.Email,
		Password:        req.Password,
		Age:             req.Age,
		CanBeContacted:  req.CanBeContacted,
		CanDataBeShared: req.CanDataBeShared,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// DeleteUser removes an account and everything it authored.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionDelete)
	if err := h.userService.Delete(c.Request.Context(), rc, id); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	if respondDenial(c, err) {
		return
	}
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username already exists")
	case errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrUserTooYoung):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
