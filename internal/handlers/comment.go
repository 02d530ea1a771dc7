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

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns comments on issues of projects the current user
// contributes to.
func (h *CommentHandler) ListComments(c *gin.Context) {
	pg := utils.PageFromQuery(c)

	rc := requestContext(c, permissions.ActionList)
	page, err := h.commentService.List(c.Request.Context(), rc, pg.Number, pg.Size)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentListResponse(page.Comments, pg.Number, pg.Size, page.Total))
}

// GetComment returns a single comment.
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionRetrieve)
	comment, err := h.commentService.Get(rc, id)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// CreateComment creates a comment on an issue whose project the current user
// contributes to.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		Description string `json:"description" binding:"required"`
		IssueID     uint64 `json:"issue"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionCreate)
	rc.IssueRef = req.IssueID

	comment, err := h.commentService.Create(c.Request.Context(), rc, services.CreateCommentInput{
		Description: req.Description,
		IssueID:     req.IssueID,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment modifies a comment. Only its author may do so.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	type UpdateCommentRequest struct {
		Description string `json:"description" binding:"required"`
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	rc := requestContext(c, permissions.ActionUpdate)
	comment, err := h.commentService.Update(c.Request.Context(), rc, id, req.Description)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment. Only its author may do so.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rc := requestContext(c, permissions.ActionDelete)
	if err := h.commentService.Delete(c.Request.Context(), rc, id); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}

func respondCommentError(c *gin.Context, err error) {
	if respondDenial(c, err) {
		return
	}
	switch {
	case errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, "Comment not found")
	case errors.Is(err, services.ErrCommentEmpty):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
