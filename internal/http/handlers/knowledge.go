package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnpath/core-service/internal/http/response"
	"github.com/learnpath/core-service/internal/services"
)

type KnowledgeHandler struct {
	knowledge services.UserKnowledgeService
}

func NewKnowledgeHandler(knowledge services.UserKnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{knowledge: knowledge}
}

// POST /api/users/:user_id/knowledge/known/:concept_id
func (h *KnowledgeHandler) MarkKnown(c *gin.Context) {
	err := h.knowledge.MarkKnown(c.Request.Context(), c.Param("user_id"), c.Param("concept_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "marked"})
}

// POST /api/users/:user_id/knowledge/learning/:concept_id
func (h *KnowledgeHandler) MarkLearning(c *gin.Context) {
	err := h.knowledge.MarkLearning(c.Request.Context(), c.Param("user_id"), c.Param("concept_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "marked"})
}

// POST /api/users/:user_id/knowledge/paths/:thread_id
func (h *KnowledgeHandler) AssignPath(c *gin.Context) {
	err := h.knowledge.AssignPath(c.Request.Context(), c.Param("user_id"), c.Param("thread_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "assigned"})
}

// GET /api/users/:user_id/knowledge/known
func (h *KnowledgeHandler) KnownConcepts(c *gin.Context) {
	concepts, err := h.knowledge.KnownConcepts(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"concepts": concepts})
}

// GET /api/users/:user_id/knowledge/learning
func (h *KnowledgeHandler) LearningConcepts(c *gin.Context) {
	concepts, err := h.knowledge.LearningConcepts(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"concepts": concepts})
}

// GET /api/users/:user_id/knowledge/known/:concept_id
func (h *KnowledgeHandler) KnowsConcept(c *gin.Context) {
	knows, err := h.knowledge.KnowsConcept(c.Request.Context(), c.Param("user_id"), c.Param("concept_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"knows": knows})
}

// GET /api/users/:user_id/graph?depth=2
func (h *KnowledgeHandler) GetUserGraph(c *gin.Context) {
	depth := 2
	if v := strings.TrimSpace(c.Query("depth")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			depth = n
		}
	}
	doc, err := h.knowledge.GetUserSubgraph(c.Request.Context(), c.Param("user_id"), depth)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/ld+json", doc)
}
