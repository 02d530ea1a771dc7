package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/support-api/internal/dto"
	apierrors "github.com/softdesk/support-api/internal/errors"
	"github.com/softdesk/support-api/internal/models"
	"github.com/softdesk/support-api/internal/permissions"
	"github.com/softdesk/support-api/internal/services"
	"github.com/softdesk/support-api/internal/utils"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns the projects the current user authors or contributes to.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	pg := utils.PageFromQuery(c)

	rc := requestContext(c, permissions.ActionList)
	page, err := h.projectService.List(c.Request.Context(), rc, pg.Number, pg.Size)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(page.Projects, pg.Number, pg.Size, page.Total))
}

// GetProject returns a single project with its contributors.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionRetrieve)
	project, err := h.projectService.Get(rc, id)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// CreateProject creates a project authored by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Type        string `json:"type" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionCreate)
	project, err := h.projectService.Create(c.Request.Context(), rc, services.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        models.ProjectType(req.Type),
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject modifies a project. Only its author may do so.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Type        *string `json:"type"`
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Type != nil {
		projectType := models.ProjectType(*req.Type)
		input.Type = &projectType
	}

	rc := requestContext(c, permissions.ActionUpdate)
	project, err := h.projectService.Update(c.Request.Context(), rc, id, input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and everything it owns.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionDelete)
	if err := h.projectService.Delete(c.Request.Context(), rc, id); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

func respondProjectError(c *gin.Context, err error) {
	if respondDenial(c, err) {
		return
	}
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrProjectTitleEmpty),
		errors.Is(err, services.ErrInvalidProjectType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
