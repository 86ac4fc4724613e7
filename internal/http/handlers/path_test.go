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

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/domain"
	"github.com/learnpath/core-service/internal/services"
	"github.com/learnpath/core-service/internal/workflow"
)

// stubPlanner returns canned results per method.
type stubPlanner struct {
	startResult *services.StartResult
	startErr    error
	pathResult  *services.PathResult
	resumeErr   error
	subgraph    []byte
	subgraphErr error
}

func (s *stubPlanner) StartPath(ctx context.Context, ownerUserID, topic string) (*services.StartResult, error) {
	return s.startResult, s.startErr
}

func (s *stubPlanner) ResumePath(ctx context.Context, threadID, answer string) (*services.PathResult, error) {
	return s.pathResult, s.resumeErr
}

func (s *stubPlanner) GetConversation(ctx context.Context, threadID string) (*services.Conversation, error) {
	return &services.Conversation{ThreadID: threadID, Status: domain.PathStatusAwaitingAnswer}, nil
}

func (s *stubPlanner) GetPathSubgraph(ctx context.Context, threadID string, depth int) ([]byte, error) {
	return s.subgraph, s.subgraphErr
}

func (s *stubPlanner) GetPathRecord(ctx context.Context, threadID string) (*domain.LearningPathRecord, error) {
	return nil, fmt.Errorf("%w: learning path %q", apperr.ErrNotFound, threadID)
}

func (s *stubPlanner) ListPathRecords(ctx context.Context, ownerUserID string, limit, offset int) ([]*domain.LearningPathRecord, error) {
	return nil, nil
}

func pathRouter(planner services.PlannerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPathHandler(planner)
	r := gin.New()
	r.POST("/api/learning-paths/start", h.StartPath)
	r.POST("/api/learning-paths/:thread_id/resume", h.ResumePath)
	r.GET("/api/learning-paths/:thread_id", h.GetPath)
	r.GET("/api/learning-paths/:thread_id/graph", h.GetPathGraph)
	return r
}

func TestStartPath_Created(t *testing.T) {
	planner := &stubPlanner{startResult: &services.StartResult{
		ThreadID: "t1",
		Status:   domain.PathStatusAwaitingAnswer,
		Questions: []workflow.Message{
			{Role: workflow.RoleAI, Content: "What do you already know?"},
		},
	}}
	r := pathRouter(planner)

	req := httptest.NewRequest(http.MethodPost, "/api/learning-paths/start", strings.NewReader(`{"topic": "Linear Algebra"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out services.StartResult
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out.ThreadID != "t1" || len(out.Questions) != 1 {
		t.Fatalf("body = %+v", out)
	}
}

func TestStartPath_MissingUserHeader(t *testing.T) {
	r := pathRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodPost, "/api/learning-paths/start", strings.NewReader(`{"topic": "Math"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing_user") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestStartPath_MissingTopicMapsTo400(t *testing.T) {
	planner := &stubPlanner{startErr: fmt.Errorf("%w: topic is required", apperr.ErrMissingTopic)}
	r := pathRouter(planner)

	req := httptest.NewRequest(http.MethodPost, "/api/learning-paths/start", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing_topic") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestResumePath_ExtractionFailureMapsTo422(t *testing.T) {
	planner := &stubPlanner{resumeErr: fmt.Errorf("%w: no structured payload", apperr.ErrExtraction)}
	r := pathRouter(planner)

	req := httptest.NewRequest(http.MethodPost, "/api/learning-paths/t1/resume", strings.NewReader(`{"answer": "nothing"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "extraction_failed") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestResumePath_OK(t *testing.T) {
	planner := &stubPlanner{pathResult: &services.PathResult{
		ThreadID: "t1",
		Status:   domain.PathStatusCompleted,
		Topic:    "Linear Algebra",
		Concepts: []services.PathConcept{
			{ID: "vectors", Label: "Vectors", Prerequisites: []string{}},
		},
	}}
	r := pathRouter(planner)

	req := httptest.NewRequest(http.MethodPost, "/api/learning-paths/t1/resume", strings.NewReader(`{"answer": "not much"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out struct {
		ThreadID string `json:"thread_id"`
		Status   string `json:"status"`
		Path     struct {
			Topic    string                 `json:"topic"`
			Concepts []services.PathConcept `json:"concepts"`
		} `json:"path"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out.Path.Topic != "Linear Algebra" || len(out.Path.Concepts) != 1 {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestGetPath_NotFoundMapsTo404(t *testing.T) {
	r := pathRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/api/learning-paths/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetPathGraph_ContentType(t *testing.T) {
	planner := &stubPlanner{subgraph: []byte(`{"@context": {}, "@graph": []}`)}
	r := pathRouter(planner)

	req := httptest.NewRequest(http.MethodGet, "/api/learning-paths/t1/graph?depth=3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/ld+json" {
		t.Fatalf("content type = %q", ct)
	}
}
