package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/CelDarley/membro-api/internal/models"
	"github.com/CelDarley/membro-api/internal/repository"
	"github.com/CelDarley/membro-api/internal/service"
	"github.com/CelDarley/membro-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// ============================================
// Member Handler
// ============================================

const (
	defaultPerPage = 30
	maxPerPage     = 200
)

type MemberHandler struct {
	memberService service.MemberService
	photos        storage.Storage
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Registro não encontrado."})
		return 0, false
	}
	return id, true
}

// parseFilter reads the free-text term and the JSON filters query
// param. A malformed filters payload degrades to no column filters
// rather than failing the request.
func parseFilter(c *gin.Context) *repository.MemberFilter {
	filter := &repository.MemberFilter{Query: c.Query("q")}

	raw := c.Query("filters")
	if raw == "" {
		return filter
	}

	var fields map[string][]string
	if err := json.Unmarshal([]byte(raw), &fields); err == nil {
		filter.Fields = fields
		return filter
	}

	// Tolerate scalar values: {"sexo": "Feminino"}.
	var scalar map[string]string
	if err := json.Unmarshal([]byte(raw), &scalar); err == nil {
		fields = make(map[string][]string, len(scalar))
		for k, v := range scalar {
			fields[k] = []string{v}
		}
		filter.Fields = fields
	}
	return filter
}

func parsePagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func (h *MemberHandler) List(c *gin.Context) {
	page, perPage := parsePagination(c)

	membros, total, err := h.memberService.List(c.Request.Context(), parseFilter(c), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     h.toMemberResponses(membros),
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Search is the lightweight free-text variant used by pickers.
func (h *MemberHandler) Search(c *gin.Context) {
	filter := &repository.MemberFilter{Query: c.Query("q")}
	membros, _, err := h.memberService.List(c.Request.Context(), filter, 1, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.toMemberResponses(membros)})
}

func (h *MemberHandler) Aggregate(c *gin.Context) {
	field := c.Query("field")
	limit, _ := strconv.Atoi(c.Query("limit"))

	values, err := h.memberService.Aggregate(c.Request.Context(), field, parseFilter(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if values == nil {
		values = []repository.ValueCount{}
	}
	c.JSON(http.StatusOK, gin.H{"field": field, "data": values})
}

func (h *MemberHandler) Stats(c *gin.Context) {
	stats, err := h.memberService.Stats(c.Request.Context(), parseFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *MemberHandler) Distinct(c *gin.Context) {
	values, err := h.memberService.Distinct(c.Request.Context(), c.Query("field"))
	if err != nil {
		respondError(c, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": values})
}

func (h *MemberHandler) Suggest(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	values, err := h.memberService.Suggest(c.Request.Context(), c.Query("field"), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": values})
}

func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	m, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toMemberResponse(m))
}

func (h *MemberHandler) Create(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Corpo da requisição inválido."})
		return
	}

	fields, _, _ := splitMemberBody(body)
	m, err := h.memberService.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toMemberResponse(m))
}

func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Corpo da requisição inválido."})
		return
	}

	fields, amigosIDs, syncAmigos := splitMemberBody(body)
	if err := h.memberService.Update(c.Request.Context(), id, fields, amigosIDs, syncAmigos); err != nil {
		respondError(c, err)
		return
	}

	m, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toMemberResponse(m))
}

// splitMemberBody coerces an arbitrary JSON object into string fields
// and pulls out the optional amigos_ids list. syncAmigos reports
// whether the key was present at all, so omitting it leaves the friend
// set untouched.
func splitMemberBody(body map[string]interface{}) (fields map[string]string, amigosIDs []int64, syncAmigos bool) {
	fields = make(map[string]string, len(body))
	for key, value := range body {
		if key == "amigos_ids" {
			syncAmigos = true
			amigosIDs = coerceIDs(value)
			continue
		}
		fields[key] = coerceString(value)
	}
	return fields, amigosIDs, syncAmigos
}

func coerceString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func coerceIDs(v interface{}) []int64 {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(list))
	for _, item := range list {
		switch t := item.(type) {
		case float64:
			ids = append(ids, int64(t))
		case string:
			if id, err := strconv.ParseInt(t, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Membro removido."})
}

func (h *MemberHandler) Friends(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	friends, err := h.memberService.Friends(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.toMemberResponses(friends)})
}

func (h *MemberHandler) UploadPhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("foto")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Arquivo 'foto' é obrigatório."})
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := h.memberService.SavePhoto(c.Request.Context(), id, data, filepath.Ext(file.Filename))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foto": url})
}

func (h *MemberHandler) Report(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pdf, err := h.memberService.Report(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="membro_`+strconv.FormatInt(id, 10)+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ============================================
// Assignment History
// ============================================

func (h *MemberHandler) ListHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.memberService.ListHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]models.HistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = toHistoryResponse(e)
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *MemberHandler) AddHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Corpo da requisição inválido."})
		return
	}

	entry, err := h.memberService.AddHistory(c.Request.Context(), id, req.Data, req.UnidadeLotacao, req.ComarcaLotacao)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHistoryResponse(entry))
}

func (h *MemberHandler) UpdateHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Corpo da requisição inválido."})
		return
	}

	if err := h.memberService.UpdateHistory(c.Request.Context(), id, req.Data, req.UnidadeLotacao, req.ComarcaLotacao); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Histórico atualizado."})
}

func (h *MemberHandler) DeleteHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.DeleteHistory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Histórico removido."})
}
