package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/entities"
)

type stubGroupService struct {
	group *entities.Group
	err   error
}

func (s *stubGroupService) CreateGroup(ctx context.Context, ownerID, name, description string) (*entities.Group, error) {
	return s.group, s.err
}

func (s *stubGroupService) GetGroup(ctx context.Context, groupID string) (*entities.Group, error) {
	return s.group, s.err
}

func (s *stubGroupService) ListGroups(ctx context.Context) ([]*entities.Group, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entities.Group{s.group}, nil
}

func (s *stubGroupService) Join(ctx context.Context, userID, groupID string) error {
	return s.err
}

func (s *stubGroupService) Leave(ctx context.Context, userID, groupID string) error {
	return s.err
}

func newGroupRouter(groupService *stubGroupService) *gin.Engine {
	router := gin.New()
	auth := &stubAuthService{callerID: "u1"}
	handler := NewGroupHandler(groupService)
	router.GET("/api/groups/:id", handler.Get)
	group := router.Group("/api", RequireAuth(auth))
	group.POST("/groups", handler.Create)
	group.POST("/groups/:id/join", handler.Join)
	return router
}

func TestGroupHandler_Create(t *testing.T) {
	service := &stubGroupService{
		group: &entities.Group{
			ID:      "g1",
			Name:    "Hikers",
			OwnerID: "u1",
			Members: entities.NewIDSet("u1"),
		},
	}
	router := newGroupRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/groups", strings.NewReader(`{"name":"Hikers"}`))
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	groupBody := body["group"].(map[string]interface{})
	if groupBody["name"] != "Hikers" {
		t.Errorf("expected group in payload, got %v", body)
	}
}

func TestGroupHandler_Join_Conflict(t *testing.T) {
	service := &stubGroupService{err: fmt.Errorf("%w: already a member", entities.ErrConflict)}
	router := newGroupRouter(service)

	w := doRequest(router, http.MethodPost, "/api/groups/g1/join", "valid-token")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGroupHandler_Get_NotFound(t *testing.T) {
	service := &stubGroupService{err: fmt.Errorf("%w: group missing", entities.ErrNotFound)}
	router := newGroupRouter(service)

	w := doRequest(router, http.MethodGet, "/api/groups/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
