package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/services"
)

// UserHandler handles profile and relationship requests. Relationship
// routes take the caller as the acting side and the path id as the
// counterpart.
type UserHandler struct {
	userService         services.UserServiceInterface
	relationshipService services.RelationshipServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserServiceInterface, relationshipService services.RelationshipServiceInterface) *UserHandler {
	return &UserHandler{
		userService:         userService,
		relationshipService: relationshipService,
	}
}

type updateProfileRequest struct {
	Username       *string `json:"username"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

// GetProfile handles GET /api/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{"user": user})
}

// UpdateProfile handles PUT /api/users/:id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), callerID(c), c.Param("id"), services.ProfilePatch{
		Username:       req.Username,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "profile updated", gin.H{"user": user})
}

// Follow handles POST /api/users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	if err := h.relationshipService.Follow(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "followed", nil)
}

// Unfollow handles POST /api/users/:id/unfollow
func (h *UserHandler) Unfollow(c *gin.Context) {
	if err := h.relationshipService.Unfollow(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "unfollowed", nil)
}

// SendFriendRequest handles POST /api/users/:id/friend-request
func (h *UserHandler) SendFriendRequest(c *gin.Context) {
	if err := h.relationshipService.SendFriendRequest(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "friend request sent", nil)
}

// AcceptFriendRequest handles POST /api/users/:id/friend-accept
func (h *UserHandler) AcceptFriendRequest(c *gin.Context) {
	if err := h.relationshipService.AcceptFriendRequest(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "friend request accepted", nil)
}

// RemoveFriend handles POST /api/users/:id/friend-remove
func (h *UserHandler) RemoveFriend(c *gin.Context) {
	if err := h.relationshipService.RemoveFriend(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "relation removed", nil)
}
