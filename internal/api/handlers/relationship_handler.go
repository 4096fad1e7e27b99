package handlers

import (
	"net/http"

	"github.com/CelDarley/membro-api/internal/models"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Relationship Handler
// ============================================

type RelationshipHandler struct {
	relationshipService service.RelationshipService
}

func (h *RelationshipHandler) ListForMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	views, err := h.relationshipService.ListForMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if views == nil {
		views = []service.RelationshipView{}
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *RelationshipHandler) ListAll(c *gin.Context) {
	rels, err := h.relationshipService.ListAll(c.Request.Context(), c.Query("degree"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rels})
}

func (h *RelationshipHandler) Create(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Alvo e grau são obrigatórios."})
		return
	}

	rel, err := h.relationshipService.Add(c.Request.Context(), id, req.TargetID, req.Degree)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (h *RelationshipHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.relationshipService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Relacionamento removido."})
}
