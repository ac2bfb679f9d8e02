package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/services"
)

// CommentHandler handles comments on posts
type CommentHandler struct {
	commentService services.CommentServiceInterface
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService services.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

type createCommentRequest struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), callerID(c), req.PostID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "comment created", gin.H{"comment": comment})
}

// ListByPost handles GET /api/posts/:id/comments?limit=
func (h *CommentHandler) ListByPost(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	comments, err := h.commentService.ListComments(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{"comments": comments})
}

// Delete handles DELETE /api/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.commentService.DeleteComment(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "comment deleted", nil)
}

// Like handles POST /api/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	count, err := h.commentService.LikeComment(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "liked", gin.H{"likes": count})
}
