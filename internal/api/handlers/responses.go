package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
)

const maxErrorLen = 200

// respondError maps service sentinel errors to HTTP statuses with
// Portuguese messages. Anything unmapped surfaces as 422 with the error
// string truncated so persistence details never flood a response.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Registro não encontrado."})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Apenas administradores."})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Credenciais inválidas."})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token inválido ou expirado."})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Email já cadastrado."})
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "As senhas não conferem."})
	case errors.Is(err, service.ErrSelfRelationship):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Não é possível relacionar um membro a ele mesmo."})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Registro duplicado."})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": invalidInputMessage(err)})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": truncate(err.Error())})
	}
}

// invalidInputMessage keeps validation detail but swaps the sentinel
// prefix for the Portuguese wording the rest of the API speaks.
func invalidInputMessage(err error) string {
	detail := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error())
	detail = strings.TrimPrefix(detail, ": ")
	if detail == "" {
		return "Dados inválidos."
	}
	return truncate("Dados inválidos: " + detail)
}

func truncate(s string) string {
	if len(s) > maxErrorLen {
		return s[:maxErrorLen]
	}
	return s
}
