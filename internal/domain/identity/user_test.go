package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with valid inputs", func(t *testing.T) {
		user, err := NewUser("mlopez", "maria@example.com", "$argon2id$hash", RoleCliente)
		require.NoError(t, err)
		assert.Equal(t, "mlopez", user.Username)
		assert.Equal(t, RoleCliente, user.Role)
		assert.True(t, user.IsActive())
		assert.Nil(t, user.LastLoginAt)
	})

	t.Run("fails with unknown role", func(t *testing.T) {
		_, err := NewUser("mlopez", "maria@example.com", "$argon2id$hash", Role("gerente"))
		require.Error(t, err)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		_, err := NewUser("", "maria@example.com", "$argon2id$hash", RoleCliente)
		require.Error(t, err)
	})

	t.Run("fails with empty password hash", func(t *testing.T) {
		_, err := NewUser("mlopez", "maria@example.com", "", RoleCliente)
		require.Error(t, err)
	})
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleVentas.IsValid())
	assert.False(t, Role("gerente").IsValid())

	assert.True(t, RoleInventario.IsStaff())
	assert.False(t, RoleCliente.IsStaff())
	assert.False(t, Role("gerente").IsStaff())
}

func TestUserLifecycle(t *testing.T) {
	user, err := NewUser("jperez", "juan@example.com", "$argon2id$hash", RoleVentas)
	require.NoError(t, err)

	user.RecordLogin()
	require.NotNil(t, user.LastLoginAt)

	require.NoError(t, user.ChangePassword("$argon2id$newhash"))
	assert.Equal(t, "$argon2id$newhash", user.PasswordHash)

	user.Disable()
	assert.False(t, user.IsActive())
}
