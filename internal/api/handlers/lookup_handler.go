package handlers

import (
	"net/http"

	"github.com/CelDarley/membro-api/internal/models"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Lookup Handler
// ============================================

type LookupHandler struct {
	lookupService service.LookupService
}

func (h *LookupHandler) List(c *gin.Context) {
	page, perPage := parsePagination(c)

	lookups, total, err := h.lookupService.List(c.Request.Context(), c.Query("type"), c.Query("q"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	if lookups == nil {
		lookups = []*repository.Lookup{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     lookups,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *LookupHandler) Create(c *gin.Context) {
	var req models.CreateLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Tipo e valor são obrigatórios."})
		return
	}

	lookup, created, err := h.lookupService.Create(c.Request.Context(), req.Type, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	// An already-known pair comes back as-is with 200.
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, lookup)
}

func (h *LookupHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Valor é obrigatório."})
		return
	}

	if err := h.lookupService.UpdateValue(c.Request.Context(), id, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Valor atualizado."})
}

func (h *LookupHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.lookupService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Valor removido."})
}

// PopulateFromMembers seeds lookups from the distinct values already
// stored on members.
func (h *LookupHandler) PopulateFromMembers(c *gin.Context) {
	inserted, err := h.lookupService.PopulateFromMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}
