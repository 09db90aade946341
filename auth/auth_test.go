package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mandeep003/nestle-truck-monitor/auth"
	"github.com/Mandeep003/nestle-truck-monitor/config"
	"github.com/Mandeep003/nestle-truck-monitor/models"
)

func testRoleConfig() config.RoleConfig {
	return config.RoleConfig{
		GatePassword:    "gate123",
		SCMPassword:     "scm2025",
		ParkingPassword: "parking123",
		MasterPassword:  "master123",
	}
}

func TestResolve_KnownCredentials(t *testing.T) {
	t.Parallel()

	resolver := auth.NewRoleResolver(testRoleConfig())

	tests := []struct {
		credential string
		role       models.Role
	}{
		{"gate123", models.RoleGate},
		{"scm2025", models.RoleSCM},
		{"parking123", models.RoleParking},
		{"master123", models.RoleMasterUser},
	}
	for _, tc := range tests {
		role, ok := resolver.Resolve(tc.credential)
		require.True(t, ok, "credential for %s", tc.role)
		assert.Equal(t, tc.role, role)
	}
}

func TestResolve_UnknownCredential(t *testing.T) {
	t.Parallel()

	resolver := auth.NewRoleResolver(testRoleConfig())

	for _, credential := range []string{"", "wrong", "GATE123", "gate123 "} {
		_, ok := resolver.Resolve(credential)
		assert.False(t, ok, "credential %q", credential)
	}
}

func TestResolve_BcryptCredential(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-master"), bcrypt.DefaultCost)
	require.NoError(t, err)

	cfg := testRoleConfig()
	cfg.MasterPassword = string(hash)
	resolver := auth.NewRoleResolver(cfg)

	role, ok := resolver.Resolve("s3cret-master")
	require.True(t, ok)
	assert.Equal(t, models.RoleMasterUser, role)

	_, ok = resolver.Resolve(string(hash))
	assert.False(t, ok, "the hash itself must not authenticate")
}

func TestResolve_EmptySecretDisablesRole(t *testing.T) {
	t.Parallel()

	cfg := testRoleConfig()
	cfg.GatePassword = ""
	resolver := auth.NewRoleResolver(cfg)

	_, ok := resolver.Resolve("")
	assert.False(t, ok)
}

func TestJWT_RoundTrip(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken(models.RoleSCM)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSCM, claims.Role)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := auth.NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken(models.RoleMasterUser)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWT_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := manager.GenerateToken(models.RoleGate)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	token, err := auth.ExtractToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic abc"} {
		_, err := auth.ExtractToken(header)
		assert.Error(t, err, "header %q", header)
	}
}
