package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleEngineer, RoleManager, RoleClient, RoleAdmin} {
		assert.True(t, role.Valid(), role)
	}
	assert.False(t, Role("ADMIN").Valid())
	assert.False(t, Role("").Valid())
}

func TestActorInCompany(t *testing.T) {
	companyID := uint(3)

	assert.True(t, Actor{CompanyID: &companyID}.InCompany(3))
	assert.False(t, Actor{CompanyID: &companyID}.InCompany(4))
	assert.False(t, Actor{}.InCompany(3))
}

func TestAllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("CLIENT_URL", "https://app.example.com")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	origins := AllowedOriginsFromEnv()

	assert.Contains(t, origins, "http://localhost:3000")
	assert.Contains(t, origins, "https://app.example.com")
	assert.Contains(t, origins, "https://a.example.com")
	assert.Contains(t, origins, "https://b.example.com")
	assert.NotContains(t, origins, "")
}
