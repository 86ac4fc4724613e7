package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnpath/core-service/internal/apperr"
	"github.com/learnpath/core-service/internal/http/response"
	"github.com/learnpath/core-service/internal/services"
)

type PathHandler struct {
	planner services.PlannerService
}

func NewPathHandler(planner services.PlannerService) *PathHandler {
	return &PathHandler{planner: planner}
}

type startPathReq struct {
	Topic string `json:"topic"`
}

type resumePathReq struct {
	Answer string `json:"answer"`
}

// POST /api/learning-paths/start
func (h *PathHandler) StartPath(c *gin.Context) {
	var req startPathReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := requestUserID(c)
	if userID == "" {
		respondDomainError(c, apperr.New(http.StatusBadRequest, "missing_user",
			fmt.Errorf("%w: X-User-Id header is required", apperr.ErrInvalidArgument)))
		return
	}
	result, err := h.planner.StartPath(c.Request.Context(), userID, req.Topic)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

// POST /api/learning-paths/:thread_id/resume
func (h *PathHandler) ResumePath(c *gin.Context) {
	threadID := strings.TrimSpace(c.Param("thread_id"))
	var req resumePathReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.planner.ResumePath(c.Request.Context(), threadID, req.Answer)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"thread_id": result.ThreadID,
		"status":    result.Status,
		"path": gin.H{
			"topic":    result.Topic,
			"concepts": result.Concepts,
		},
	})
}

// GET /api/learning-paths/:thread_id/conversation
func (h *PathHandler) GetConversation(c *gin.Context) {
	threadID := strings.TrimSpace(c.Param("thread_id"))
	conv, err := h.planner.GetConversation(c.Request.Context(), threadID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, conv)
}

// GET /api/learning-paths/:thread_id/graph?depth=2
func (h *PathHandler) GetPathGraph(c *gin.Context) {
	threadID := strings.TrimSpace(c.Param("thread_id"))
	depth := 2
	if v := strings.TrimSpace(c.Query("depth")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			depth = n
		}
	}
	doc, err := h.planner.GetPathSubgraph(c.Request.Context(), threadID, depth)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/ld+json", doc)
}

// GET /api/learning-paths/:thread_id
func (h *PathHandler) GetPath(c *gin.Context) {
	threadID := strings.TrimSpace(c.Param("thread_id"))
	record, err := h.planner.GetPathRecord(c.Request.Context(), threadID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, record)
}

// GET /api/learning-paths?limit=100&offset=0
func (h *PathHandler) ListPaths(c *gin.Context) {
	limit := 100
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	offset := 0
	if v := strings.TrimSpace(c.Query("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	records, err := h.planner.ListPathRecords(c.Request.Context(), requestUserID(c), limit, offset)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"paths": records})
}
