package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFriendIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, parseFriendIDs("1,2,3"))
	assert.Equal(t, []int64{4, 5}, parseFriendIDs("4; 5"))
	assert.Equal(t, []int64{7, 8}, parseFriendIDs("7 | 8"))
	assert.Equal(t, []int64{9}, parseFriendIDs(" 9 , abc , -2 "))
	assert.Nil(t, parseFriendIDs(""))
	assert.Nil(t, parseFriendIDs("a, b"))
}

func TestSplitHeaderDetectsHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Relação de Membros", "", ""},
		{"", "", ""},
		{"Membro", "Sexo", "Comarca Lotação", "Amigos no MP (IDs)"},
		{"Ana", "Feminino", "Belo Horizonte", "2,3"},
	}

	headerIdx, data := splitHeader(rows)
	require.NotNil(t, headerIdx)
	assert.Equal(t, 0, headerIdx["nome"])
	assert.Equal(t, 1, headerIdx["sexo"])
	assert.Equal(t, 2, headerIdx["comarca_lotacao"])
	assert.Equal(t, 3, headerIdx["amigos_ids"])
	require.Len(t, data, 1)
	assert.Equal(t, "Ana", data[0][0])
}

func TestSplitHeaderAliases(t *testing.T) {
	rows := [][]string{
		{"Nome", "Gênero", "Cidade", "UF", "Celular"},
		{"Bruno", "Masculino", "Contagem", "MG", "31999990000"},
	}

	headerIdx, _ := splitHeader(rows)
	require.NotNil(t, headerIdx)
	assert.Equal(t, 0, headerIdx["nome"])
	assert.Equal(t, 1, headerIdx["sexo"])
	assert.Equal(t, 2, headerIdx["comarca_lotacao"])
	assert.Equal(t, 3, headerIdx["estado_origem"])
	assert.Equal(t, 4, headerIdx["telefone_celular"])
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "comarca lotacao", normalize("Comarca Lotação"))
	assert.Equal(t, "genero", normalize(" Gênero "))
}
