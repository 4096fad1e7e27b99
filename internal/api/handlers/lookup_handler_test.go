package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLookupService answers Create with a fixed row and created flag.
type stubLookupService struct {
	service.LookupService
	created bool
}

func (s *stubLookupService) Create(_ context.Context, lookupType, value string) (*repository.Lookup, bool, error) {
	return &repository.Lookup{ID: 7, Type: lookupType, Value: value}, s.created, nil
}

func (s *stubLookupService) List(_ context.Context, lookupType, _ string, _, _ int) ([]*repository.Lookup, int, error) {
	return []*repository.Lookup{{ID: 7, Type: lookupType, Value: "LVII"}}, 1, nil
}

func postLookup(t *testing.T, h *LookupHandler) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/lookups", strings.NewReader(`{"type":"concurso","value":"LVII"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	return w
}

func TestLookupListEnvelope(t *testing.T) {
	h := &LookupHandler{lookupService: &stubLookupService{}}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/lookups?type=concurso", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data"`)
	assert.Contains(t, w.Body.String(), `"total"`)
	assert.NotContains(t, w.Body.String(), `"lookups"`)
}

func TestLookupCreateStatus(t *testing.T) {
	w := postLookup(t, &LookupHandler{lookupService: &stubLookupService{created: true}})
	require.Equal(t, http.StatusCreated, w.Code)

	// An already-known (type, value) pair answers 200 with the row.
	w = postLookup(t, &LookupHandler{lookupService: &stubLookupService{created: false}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"LVII"`)
}
