package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUF(t *testing.T) {
	assert.Nil(t, NormalizeUF(""))
	assert.Nil(t, NormalizeUF("   "))

	uf := NormalizeUF("mg ")
	require.NotNil(t, uf)
	assert.Equal(t, "MG", *uf)

	uf = NormalizeUF("minas gerais")
	require.NotNil(t, uf)
	assert.Equal(t, "MI", *uf)
}

func TestBuildSetsSkipsEmptyValues(t *testing.T) {
	sets, err := buildSets(map[string]string{
		"nome": "Ana",
		"sexo": "",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"nome": "Ana"}, sets)
}

func TestBuildSetsIgnoresUnknownKeys(t *testing.T) {
	sets, err := buildSets(map[string]string{
		"nome":        "Ana",
		"foto":        "something.jpg",
		"campo_falso": "x",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"nome": "Ana"}, sets)
}

func TestBuildSetsTypedColumns(t *testing.T) {
	sets, err := buildSets(map[string]string{
		"quantidade_filhos": "2.0",
		"data_inclusao":     "2019-03-15",
		"estado_origem":     "sp",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, sets["quantidade_filhos"])
	assert.Equal(t, time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC), sets["data_inclusao"])
	assert.Equal(t, "SP", sets["estado_origem"])
}

func TestBuildSetsInvalidValues(t *testing.T) {
	_, err := buildSets(map[string]string{"quantidade_filhos": "dois"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = buildSets(map[string]string{"data_inclusao": "15/03/2019"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSanitizeFriendIDs(t *testing.T) {
	out := SanitizeFriendIDs(5, []int64{3, 5, 3, -1, 0, 9})
	assert.Equal(t, []int64{3, 9}, out)

	assert.Empty(t, SanitizeFriendIDs(1, nil))
	assert.Empty(t, SanitizeFriendIDs(1, []int64{1, 1, 1}))
}

func TestDiffFriendIDs(t *testing.T) {
	toAdd, toRemove := DiffFriendIDs([]int64{2, 3}, []int64{3, 4})
	assert.Equal(t, []int64{4}, toAdd)
	assert.Equal(t, []int64{2}, toRemove)

	toAdd, toRemove = DiffFriendIDs(nil, []int64{1, 2})
	assert.Equal(t, []int64{1, 2}, toAdd)
	assert.Empty(t, toRemove)

	toAdd, toRemove = DiffFriendIDs([]int64{7}, nil)
	assert.Empty(t, toAdd)
	assert.Equal(t, []int64{7}, toRemove)

	toAdd, toRemove = DiffFriendIDs([]int64{1, 2}, []int64{1, 2})
	assert.Empty(t, toAdd)
	assert.Empty(t, toRemove)
}

func TestFemalePct(t *testing.T) {
	assert.Equal(t, 0.0, FemalePct(0, 0))
	assert.Equal(t, 50.0, FemalePct(1, 2))
	assert.Equal(t, 33.3, FemalePct(1, 3))
	assert.Equal(t, 66.7, FemalePct(2, 3))
	assert.Equal(t, 100.0, FemalePct(5, 5))
}
