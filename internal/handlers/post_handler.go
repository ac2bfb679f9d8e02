package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/services"
)

// PostHandler handles the post feed
type PostHandler struct {
	postService services.PostServiceInterface
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService services.PostServiceInterface) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

type createPostRequest struct {
	Image   string `json:"image"`
	Caption string `json:"caption"`
}

// Create handles POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), callerID(c), req.Image, req.Caption)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "post created", gin.H{"post": post})
}

// List handles GET /api/posts?page=&limit=
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	feed, err := h.postService.ListPosts(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{
		"posts":       feed.Posts,
		"currentPage": feed.CurrentPage,
		"totalPages":  feed.TotalPages,
		"totalPosts":  feed.TotalPosts,
		"hasNext":     feed.HasNext,
		"hasPrev":     feed.HasPrev,
	})
}

// Get handles GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{"post": post})
}

// Delete handles DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "post deleted", nil)
}

// Like handles POST /api/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	count, err := h.postService.LikePost(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "liked", gin.H{"likes": count})
}

// Unlike handles POST /api/posts/:id/unlike
func (h *PostHandler) Unlike(c *gin.Context) {
	count, err := h.postService.UnlikePost(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "unliked", gin.H{"likes": count})
}
