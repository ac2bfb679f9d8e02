package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/services"
)

// GroupHandler handles group creation and membership
type GroupHandler struct {
	groupService services.GroupServiceInterface
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupService services.GroupServiceInterface) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), callerID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "group created", gin.H{"group": group})
}

// List handles GET /api/groups
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{"groups": groups})
}

// Get handles GET /api/groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groupService.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "ok", gin.H{"group": group})
}

// Join handles POST /api/groups/:id/join
func (h *GroupHandler) Join(c *gin.Context) {
	if err := h.groupService.Join(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "joined group", nil)
}

// Leave handles POST /api/groups/:id/leave
func (h *GroupHandler) Leave(c *gin.Context) {
	if err := h.groupService.Leave(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "left group", nil)
}
