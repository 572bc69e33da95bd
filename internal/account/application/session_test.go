package application_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buslinehq/busline/internal/account/application"
	"github.com/buslinehq/busline/internal/account/domain"
)

func sequentialTokens() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("token-%d", n)
	}
}

func TestSessionRegistryBeginResolveEnd(t *testing.T) {
	registry := application.NewSessionRegistry(sequentialTokens())

	session := registry.Begin(domain.User{ID: 7, Role: domain.RoleUser})
	require.NotEmpty(t, session.Token)
	assert.Equal(t, int64(7), session.UserID)
	assert.False(t, session.IsAdmin())

	resolved, ok := registry.Resolve(session.Token)
	require.True(t, ok)
	assert.Equal(t, session, resolved)

	registry.End(session.Token)
	_, ok = registry.Resolve(session.Token)
	assert.False(t, ok, "ended session must not resolve")
}

func TestSessionRegistryAdminRole(t *testing.T) {
	registry := application.NewSessionRegistry(sequentialTokens())

	session := registry.Begin(domain.User{ID: 1, Role: domain.RoleAdmin})
	assert.True(t, session.IsAdmin())
}

func TestSessionRegistryUnknownToken(t *testing.T) {
	registry := application.NewSessionRegistry(sequentialTokens())

	_, ok := registry.Resolve("missing")
	assert.False(t, ok)
}
