package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRole(t *testing.T) {
	// The very first account is always admin, whatever was asked for.
	assert.Equal(t, "admin", ResolveRole("user", 0))
	assert.Equal(t, "admin", ResolveRole("", 0))
	assert.Equal(t, "admin", ResolveRole("admin", 0))

	// After that the requested role stands.
	assert.Equal(t, "user", ResolveRole("user", 1))
	assert.Equal(t, "admin", ResolveRole("admin", 3))
	assert.Equal(t, "", ResolveRole("", 1))
}
