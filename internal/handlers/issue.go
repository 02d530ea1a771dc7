package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/softdesk/support-api/internal/dto"
	apierrors "github.com/softdesk/support-api/internal/errors"
	"github.com/softdesk/support-api/internal/models"
	"github.com/softdesk/support-api/internal/permissions"
	"github.com/softdesk/support-api/internal/repository"
	"github.com/softdesk/support-api/internal/services"
	"github.com/softdesk/support-api/internal/utils"
)

// IssueHandler coordinates issue HTTP handlers.
type IssueHandler struct {
	issueService *services.IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issueService *services.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// ListIssues returns issues of projects the current user contributes to.
// Supports filtering by project, status, priority and tag.
func (h *IssueHandler) ListIssues(c *gin.Context) {
	pg := utils.PageFromQuery(c)
	filter := repository.IssueFilter{
		Page:     pg.Number,
		PageSize: pg.Size,
	}

	if raw := c.Query("project"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project filter")
			return
		}
		filter.ProjectID = &projectID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.IssueStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.IssuePriority(raw)
		filter.Priority = &priority
	}
	if raw := c.Query("tag"); raw != "" {
		tag := models.IssueTag(raw)
		filter.Tag = &tag
	}

	rc := requestContext(c, permissions.ActionList)
	page, err := h.issueService.List(c.Request.Context(), rc, filter)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueListResponse(page.Issues, pg.Number, pg.Size, page.Total))
}

// GetIssue returns a single issue.
func (h *IssueHandler) GetIssue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionRetrieve)
	issue, err := h.issueService.Get(rc, id)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// CreateIssue creates an issue in a project the current user contributes to.
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	type CreateIssueRequest struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Priority    string  `json:"priority" binding:"required"`
		Tag         string  `json:"tag" binding:"required"`
		Status      string  `json:"status"`
		ProjectID   uint64  `json:"project"`
		AssigneeID  *uint64 `json:"assignee"`
	}

	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionCreate)
	rc.ProjectRef = req.ProjectID

	issue, err := h.issueService.Create(c.Request.Context(), rc, services.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.IssuePriority(req.Priority),
		Tag:         models.IssueTag(req.Tag),
		Status:      models.IssueStatus(req.Status),
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIssueDTO(*issue))
}

// UpdateIssue modifies an issue. Only its author may do so. An explicit null
// assignee clears the assignment.
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	type UpdateIssueRequest struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		Priority    *string          `json:"priority"`
		Tag         *string          `json:"tag"`
		Status      *string          `json:"status"`
		AssigneeID  jsonNullableUint `json:"assignee"`
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		priority := models.IssuePriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Tag != nil {
		tag := models.IssueTag(*req.Tag)
		input.Tag = &tag
	}
	if req.Status != nil {
		status := models.IssueStatus(*req.Status)
		input.Status = &status
	}
	if req.AssigneeID.Present {
		if req.AssigneeID.Value == nil {
			input.ClearAssignee = true
		} else {
			input.AssigneeID = req.AssigneeID.Value
		}
	}

	rc := requestContext(c, permissions.ActionUpdate)
	issue, err := h.issueService.Update(c.Request.Context(), rc, id, input)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// DeleteIssue removes an issue and its comments. Only its author may do so.
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionDelete)
	if err := h.issueService.Delete(c.Request.Context(), rc, id); err != nil {
		respondIssueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue deleted successfully",
	})
}

// GenerateIssues drafts issues from free-form text using AI and creates them
// in the given project.
func (h *IssueHandler) GenerateIssues(c *gin.Context) {
	type GenerateIssuesRequest struct {
		ProjectID uint64 `json:"project" binding:"required"`
		Text      string `json:"text" binding:"required"`
	}

	var req GenerateIssuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionCreate)
	rc.ProjectRef = req.ProjectID

	issues, err := h.issueService.GenerateFromText(c.Request.Context(), rc, req.ProjectID, req.Text)
	if err != nil {
		respondIssueError(c, err)
		return
	}

	dtos := make([]dto.IssueDTO, len(issues))
	for i, issue := range issues {
		dtos[i] = dto.ToIssueDTO(issue)
	}
	c.JSON(http.StatusCreated, gin.H{"issues": dtos})
}

// jsonNullableUint distinguishes an absent field from an explicit null.
type jsonNullableUint struct {
	Present bool
	Value   *uint64
}

// UnmarshalJSON records presence; a JSON null leaves Value nil.
func (n *jsonNullableUint) UnmarshalJSON(data []byte) error {
	n.Present = true
	if string(data) == "null" {
		return nil
	}
	value, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	n.Value = &value
	return nil
}

func respondIssueError(c *gin.Context, err error) {
	if respondDenial(c, err) {
		return
	}
	switch {
	case errors.Is(err, services.ErrIssueNotFound):
		apierrors.NotFound(c, "Issue not found")
	case errors.Is(err, services.ErrIssueTitleEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidTag),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidAssignee):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeInternalError, "AI service is not configured"))
	case errors.Is(err, services.ErrAINoValidIssues):
		apierrors.BadRequest(c, "No valid issues could be created from the text")
	default:
		apierrors.InternalError(c, "")
	}
}
