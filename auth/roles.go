package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mandeep003/nestle-truck-monitor/config"
	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// RoleResolver maps a presented shared-secret password to a role. Unknown
// credentials resolve to no role, never an error.
type RoleResolver struct {
	credentials map[models.Role]string
}

// NewRoleResolver builds a resolver from the configured role passwords.
func NewRoleResolver(cfg config.RoleConfig) *RoleResolver {
	return &RoleResolver{
		credentials: map[models.Role]string{
			models.RoleGate:       cfg.GatePassword,
			models.RoleSCM:        cfg.SCMPassword,
			models.RoleParking:    cfg.ParkingPassword,
			models.RoleMasterUser: cfg.MasterPassword,
		},
	}
}

// Resolve returns the role for a credential, or false if it matches none.
// Every configured credential is checked so timing does not reveal which
// role, if any, a guess was close to.
func (r *RoleResolver) Resolve(credential string) (models.Role, bool) {
	var matched models.Role
	found := false
	for role, secret := range r.credentials {
		if secret == "" {
			continue
		}
		if credentialMatches(credential, secret) {
			matched = role
			found = true
		}
	}
	return matched, found
}

// credentialMatches compares a presented credential against a configured
// secret. Secrets stored as bcrypt hashes (prefix "$2") are verified with
// bcrypt; plain secrets use a constant-time compare.
func credentialMatches(credential, secret string) bool {
	if strings.HasPrefix(secret, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(credential)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(secret)) == 1
}
