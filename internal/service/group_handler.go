package service

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
)

// GroupHandler serves the participant directory.
type GroupHandler struct {
	store storage.Store
}

// NewGroupHandler creates a new GroupHandler with the given storage backend.
func NewGroupHandler(store storage.Store) *GroupHandler {
	return &GroupHandler{store: store}
}

type createGroupRequest struct {
	Name    string               `json:"name" binding:"required"`
	Members []models.Participant `json:"members"`
}

type addMembersRequest struct {
	Members []models.Participant `json:"members" binding:"required,min=1"`
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, "group name cannot be empty")
		return
	}
	if !namedMembers(req.Members) {
		badRequest(c, "every member needs a name")
		return
	}

	slog.Info("CreateGroup request received", "name", req.Name, "members_count", len(req.Members))

	group := &models.Group{Name: strings.TrimSpace(req.Name), Members: req.Members}
	if err := h.store.CreateGroup(c.Request.Context(), group); err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Group created", "group_id", group.ID)
	respondOK(c, http.StatusCreated, group)
}

// GetGroup handles GET /groups/:id.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.store.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, group)
}

// ListGroups handles GET /groups.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.store.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, groups)
}

// AddMembers handles POST /groups/:id/members. Members already in the group
// are ignored; the response lists the ones added.
func (h *GroupHandler) AddMembers(c *gin.Context) {
	var req addMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !namedMembers(req.Members) {
		badRequest(c, "every member needs a name")
		return
	}

	groupID := c.Param("id")
	added, err := h.store.AddGroupMembers(c.Request.Context(), groupID, req.Members)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("Members added to group", "group_id", groupID, "added", len(added))
	respondOK(c, http.StatusOK, added)
}

func namedMembers(members []models.Participant) bool {
	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			return false
		}
	}
	return true
}
