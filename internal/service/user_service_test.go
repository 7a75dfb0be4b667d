package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAdminAPI struct {
	isAdmin bool
	err     error
	calls   int
	asked   string
}

func (m *mockAdminAPI) IsAdmin(ctx context.Context, username string) (bool, error) {
	m.calls++
	m.asked = username
	return m.isAdmin, m.err
}

func TestCheckIsAdmin(t *testing.T) {
	remote := &mockAdminAPI{isAdmin: true}
	svc := NewUserService(remote, nil)
	svc.SetUsername("registrar")

	assert.False(t, svc.IsAdmin())
	assert.True(t, svc.CheckIsAdmin(context.Background()))
	assert.True(t, svc.IsAdmin())
	assert.Equal(t, "registrar", remote.asked)
}

func TestCheckIsAdminDowngradesOnFailure(t *testing.T) {
	remote := &mockAdminAPI{isAdmin: true, err: errors.New("boom")}
	svc := NewUserService(remote, nil)
	svc.SetUsername("registrar")

	assert.False(t, svc.CheckIsAdmin(context.Background()))
	assert.False(t, svc.IsAdmin())
}

func TestCheckIsAdminWithoutUsername(t *testing.T) {
	remote := &mockAdminAPI{isAdmin: true}
	svc := NewUserService(remote, nil)

	assert.False(t, svc.CheckIsAdmin(context.Background()))
	assert.Equal(t, 0, remote.calls)
}

func TestUsernameRoundTrip(t *testing.T) {
	svc := NewUserService(&mockAdminAPI{}, nil)
	require.Equal(t, "", svc.Username())

	svc.SetUsername("clerk")
	assert.Equal(t, "clerk", svc.Username())
}
