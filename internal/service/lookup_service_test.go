package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidLookupType(t *testing.T) {
	assert.True(t, ValidLookupType("estado_origem"))
	assert.True(t, ValidLookupType("comarca_lotacao"))
	assert.False(t, ValidLookupType("nome"))
	assert.False(t, ValidLookupType(""))
	assert.False(t, ValidLookupType("users"))
}

func TestFallbackUFs(t *testing.T) {
	all := FallbackUFs("")
	require.Len(t, all, 27)
	assert.Equal(t, "estado_origem", all[0].Type)

	mg := FallbackUFs("mg")
	require.Len(t, mg, 1)
	assert.Equal(t, "MG", mg[0].Value)

	// Substring match: "m" hits MA, MT, MS, MG, AM.
	m := FallbackUFs("M")
	values := make([]string, len(m))
	for i, lk := range m {
		values[i] = lk.Value
	}
	assert.Contains(t, values, "MG")
	assert.Contains(t, values, "AM")

	assert.Empty(t, FallbackUFs("zz"))
}
