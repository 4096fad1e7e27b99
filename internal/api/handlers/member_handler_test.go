package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/membros?"+rawQuery, nil)
	return c
}

func TestParseFilterQueryAndFields(t *testing.T) {
	c := testContext(t, "q=silva&filters="+url.QueryEscape(`{"sexo":["Feminino"],"concurso":["LVII"]}`))

	filter := parseFilter(c)
	assert.Equal(t, "silva", filter.Query)
	assert.Equal(t, []string{"Feminino"}, filter.Fields["sexo"])
	assert.Equal(t, []string{"LVII"}, filter.Fields["concurso"])
}

func TestParseFilterScalarValues(t *testing.T) {
	c := testContext(t, "filters="+url.QueryEscape(`{"sexo":"Feminino"}`))

	filter := parseFilter(c)
	assert.Equal(t, []string{"Feminino"}, filter.Fields["sexo"])
}

func TestParseFilterMalformedDegrades(t *testing.T) {
	c := testContext(t, "q=ana&filters="+url.QueryEscape(`{not json`))

	filter := parseFilter(c)
	assert.Equal(t, "ana", filter.Query)
	assert.Empty(t, filter.Fields)
}

func TestParsePagination(t *testing.T) {
	page, perPage := parsePagination(testContext(t, ""))
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPerPage, perPage)

	page, perPage = parsePagination(testContext(t, "page=3&per_page=10"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 10, perPage)

	page, perPage = parsePagination(testContext(t, "page=-1&per_page=9999"))
	assert.Equal(t, 1, page)
	assert.Equal(t, maxPerPage, perPage)

	page, perPage = parsePagination(testContext(t, "page=abc&per_page=0"))
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPerPage, perPage)
}

func TestSplitMemberBody(t *testing.T) {
	fields, amigos, sync := splitMemberBody(map[string]interface{}{
		"nome":              "Ana",
		"quantidade_filhos": float64(2),
		"lideranca":         true,
		"observacao":        nil,
		"amigos_ids":        []interface{}{float64(3), "4", "x"},
	})

	assert.True(t, sync)
	assert.Equal(t, []int64{3, 4}, amigos)
	assert.Equal(t, "Ana", fields["nome"])
	assert.Equal(t, "2", fields["quantidade_filhos"])
	assert.Equal(t, "true", fields["lideranca"])
	assert.Equal(t, "", fields["observacao"])
	_, present := fields["amigos_ids"]
	assert.False(t, present)
}

func TestSplitMemberBodyWithoutAmigos(t *testing.T) {
	fields, amigos, sync := splitMemberBody(map[string]interface{}{"nome": "Bruno"})

	assert.False(t, sync)
	assert.Nil(t, amigos)
	require.Len(t, fields, 1)
}

func TestCoerceIDsNonList(t *testing.T) {
	assert.Nil(t, coerceIDs("3,4"))
	assert.Nil(t, coerceIDs(nil))
	assert.Empty(t, coerceIDs([]interface{}{}))
}

// stubMemberService serves canned list results; other methods panic if
// reached.
type stubMemberService struct {
	service.MemberService
	membros []*repository.Membro
	total   int
}

func (s *stubMemberService) List(_ context.Context, _ *repository.MemberFilter, _, _ int) ([]*repository.Membro, int, error) {
	return s.membros, s.total, nil
}

type stubStorage struct{}

func (stubStorage) Store(_ []byte, _ int64, _ string) (string, error) { return "", nil }
func (stubStorage) Resolve(path string) string                        { return "/uploads/" + path }

func TestListEnvelope(t *testing.T) {
	nome := "Ana"
	h := &MemberHandler{
		memberService: &stubMemberService{
			membros: []*repository.Membro{{ID: 1, Nome: &nome}},
			total:   1,
		},
		photos: stubStorage{},
	}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/membros", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// List endpoints answer with a data envelope plus paging fields.
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "total")
	assert.Contains(t, body, "page")
	assert.Contains(t, body, "per_page")
	assert.NotContains(t, body, "membros")
	assert.Equal(t, float64(1), body["total"])

	rows, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := make([]byte, maxErrorLen*2)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, truncate(string(long)), maxErrorLen)
}
