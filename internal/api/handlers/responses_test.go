package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidInputMessage(t *testing.T) {
	err := fmt.Errorf("%w: quantidade_filhos %q", service.ErrInvalidInput, "abc")
	msg := invalidInputMessage(err)
	assert.Equal(t, `Dados inválidos: quantidade_filhos "abc"`, msg)
	assert.NotContains(t, msg, "invalid input")

	assert.Equal(t, "Dados inválidos.", invalidInputMessage(service.ErrInvalidInput))
}

func TestRespondErrorInvalidInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, fmt.Errorf("%w: sexo desconhecido", service.ErrInvalidInput))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Dados inválidos: sexo desconhecido")
	assert.False(t, strings.Contains(w.Body.String(), "invalid input"))
}
