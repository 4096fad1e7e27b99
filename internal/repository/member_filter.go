package repository

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// fieldColumns is the closed table of filterable member fields. Keys are
// the stable wire keys accepted from clients; values are the storage
// columns. Anything absent here is ignored by the filter builder, which
// also makes the table the allowlist for dynamic SQL.
var fieldColumns = map[string]string{
	"nome":                    "nome",
	"sexo":                    "sexo",
	"concurso":                "concurso",
	"cargo_efetivo":           "cargo_efetivo",
	"titularidade":            "titularidade",
	"email_pessoal":           "email_pessoal",
	"cargo_especial":          "cargo_especial",
	"telefone_unidade":        "telefone_unidade",
	"telefone_celular":        "telefone_celular",
	"unidade_lotacao":         "unidade_lotacao",
	"comarca_lotacao":         "comarca_lotacao",
	"time_extraprofissionais": "time_extraprofissionais",
	"quantidade_filhos":       "quantidade_filhos",
	"nomes_filhos":            "nomes_filhos",
	"estado_origem":           "estado_origem",
	"academico":               "academico",
	"pretensao_carreira":      "pretensao_carreira",
	"carreira_anterior":       "carreira_anterior",
	"lideranca":               "lideranca",
	"grupos_identitarios":     "grupos_identitarios",
	"data_inclusao":           "data_inclusao",
	"observacao":              "observacao",
}

// FieldColumn resolves a stable field key to its storage column.
func FieldColumn(key string) (string, bool) {
	col, ok := fieldColumns[strings.ToLower(strings.TrimSpace(key))]
	return col, ok
}

// FieldColumns returns the filterable field keys in sorted order.
func FieldColumns() []string {
	keys := make([]string, 0, len(fieldColumns))
	for k := range fieldColumns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MemberFilter describes a member query: an optional free-text term
// matched against name, venue and position, plus per-field value lists.
type MemberFilter struct {
	Query  string
	Fields map[string][]string
}

// BuildWhere renders the filter as a parameterized WHERE clause starting
// at $1. A record matches when the free-text query (if any) substring
// matches nome, comarca_lotacao or cargo_efetivo, and every field with a
// non-empty value list holds one of the listed values. Unknown field
// keys and empty value lists contribute nothing.
func (f *MemberFilter) BuildWhere() (string, []interface{}) {
	var conds []string
	var args []interface{}

	if q := strings.TrimSpace(f.Query); q != "" {
		n := strconv.Itoa(len(args) + 1)
		conds = append(conds, "(nome ILIKE $"+n+" OR comarca_lotacao ILIKE $"+n+" OR cargo_efetivo ILIKE $"+n+")")
		args = append(args, "%"+q+"%")
	}

	// Deterministic clause order regardless of map iteration.
	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		col, ok := FieldColumn(key)
		if !ok {
			continue
		}
		values := make([]string, 0, len(f.Fields[key]))
		for _, v := range f.Fields[key] {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		n := strconv.Itoa(len(args) + 1)
		conds = append(conds, col+"::text = ANY($"+n+")")
		args = append(args, pq.Array(values))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
