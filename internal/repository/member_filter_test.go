package repository

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhereEmpty(t *testing.T) {
	f := &MemberFilter{}
	where, args := f.BuildWhere()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildWhereQueryOnly(t *testing.T) {
	f := &MemberFilter{Query: "  silva "}
	where, args := f.BuildWhere()

	assert.Equal(t, " WHERE (nome ILIKE $1 OR comarca_lotacao ILIKE $1 OR cargo_efetivo ILIKE $1)", where)
	require.Len(t, args, 1)
	assert.Equal(t, "%silva%", args[0])
}

func TestBuildWhereFieldValues(t *testing.T) {
	f := &MemberFilter{Fields: map[string][]string{
		"sexo": {"Feminino"},
	}}
	where, args := f.BuildWhere()

	assert.Equal(t, " WHERE sexo::text = ANY($1)", where)
	require.Len(t, args, 1)
	assert.Equal(t, pq.Array([]string{"Feminino"}), args[0])
}

func TestBuildWhereIgnoresUnknownKeys(t *testing.T) {
	f := &MemberFilter{Fields: map[string][]string{
		"no_such_field": {"x"},
		"drop table":    {"y"},
	}}
	where, args := f.BuildWhere()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildWhereSkipsEmptyValueLists(t *testing.T) {
	f := &MemberFilter{Fields: map[string][]string{
		"sexo":     {},
		"concurso": {"  ", ""},
	}}
	where, args := f.BuildWhere()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildWhereTrimsValues(t *testing.T) {
	f := &MemberFilter{Fields: map[string][]string{
		"comarca_lotacao": {" Belo Horizonte ", "", "Contagem"},
	}}
	where, args := f.BuildWhere()

	assert.Equal(t, " WHERE comarca_lotacao::text = ANY($1)", where)
	require.Len(t, args, 1)
	assert.Equal(t, pq.Array([]string{"Belo Horizonte", "Contagem"}), args[0])
}

func TestBuildWhereDeterministicOrder(t *testing.T) {
	f := &MemberFilter{
		Query: "ana",
		Fields: map[string][]string{
			"sexo":     {"Feminino"},
			"concurso": {"LVII"},
		},
	}

	for i := 0; i < 10; i++ {
		where, args := f.BuildWhere()
		assert.Equal(t,
			" WHERE (nome ILIKE $1 OR comarca_lotacao ILIKE $1 OR cargo_efetivo ILIKE $1)"+
				" AND concurso::text = ANY($2) AND sexo::text = ANY($3)",
			where)
		assert.Len(t, args, 3)
	}
}

func TestFieldColumn(t *testing.T) {
	col, ok := FieldColumn(" Nome ")
	assert.True(t, ok)
	assert.Equal(t, "nome", col)

	_, ok = FieldColumn("label that is not a key")
	assert.False(t, ok)
}

func TestFieldColumnsSorted(t *testing.T) {
	keys := FieldColumns()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
	assert.Contains(t, keys, "quantidade_filhos")
	assert.Contains(t, keys, "data_inclusao")
}
