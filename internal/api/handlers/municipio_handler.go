package handlers

import (
	"net/http"

	"github.com/CelDarley/membro-api/internal/geo"
	"github.com/gin-gonic/gin"
)

// ============================================
// Municipio Handler
// ============================================

type MunicipioHandler struct {
	geoClient *geo.Client
}

func (h *MunicipioHandler) Info(c *gin.Context) {
	nome := c.Query("nome")
	if nome == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Parâmetro 'nome' é obrigatório."})
		return
	}

	municipio, err := h.geoClient.Lookup(c.Request.Context(), nome, c.Query("uf"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": municipio})
}
