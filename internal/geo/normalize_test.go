package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Sao Paulo", Normalize("São Paulo"))
	assert.Equal(t, "Uberlandia", Normalize(" Uberlândia "))
	assert.Equal(t, "Pocos de Caldas", Normalize("Poços de Caldas"))
	assert.Equal(t, "", Normalize("   "))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "belo-horizonte", Slug("Belo Horizonte"))
	assert.Equal(t, "pocos-de-caldas", Slug("Poços de Caldas"))
	assert.Equal(t, "niteroi", Slug("Niterói"))
}
