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

// ContributorHandler coordinates project membership HTTP handlers.
type ContributorHandler struct {
	contributorService *services.ContributorService
}

// NewContributorHandler creates a new ContributorHandler.
func NewContributorHandler(contributorService *services.ContributorService) *ContributorHandler {
	return &ContributorHandler{
		contributorService: contributorService,
	}
}

// ListContributors returns contributors of the projects the current user authors.
func (h *ContributorHandler) ListContributors(c *gin.Context) {
	pg := utils.PageFromQuery(c)

	rc := requestContext(c, permissions.ActionList)
	page, err := h.contributorService.List(c.Request.Context(), rc, pg.Number, pg.Size)
	if err != nil {
		respondContributorError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToContributorListResponse(page.Contributors, pg.Number, pg.Size, page.Total))
}

// CreateContributor adds a user to a project. Only the project author may do so.
func (h *ContributorHandler) CreateContributor(c *gin.Context) {
	type CreateContributorRequest struct {
		UserID    uint64 `json:"user" binding:"required"`
		ProjectID uint64 `json:"project"`
	}

	var req CreateContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionCreate)
	rc.ProjectRef = req.ProjectID

	contributor, err := h.contributorService.Create(c.Request.Context(), rc, services.CreateContributorInput{
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		respondContributorError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToContributorDTO(*contributor))
}

// DeleteContributor removes a membership. Only the author of its project may do so.
func (h *ContributorHandler) DeleteContributor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionDelete)
	if err := h.contributorService.Delete(c.Request.Context(), rc, id); err != nil {
		respondContributorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contributor removed successfully",
	})
}

func respondContributorError(c *gin.Context, err error) {
	if respondDenial(c, err) {
		return
	}
	switch {
	case errors.Is(err, services.ErrContributorNotFound):
		apierrors.NotFound(c, "Contributor not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAlreadyContributor):
		apierrors.Conflict(c, "User is already a contributor of this project")
	default:
		apierrors.InternalError(c, "")
	}
}
