package types

import (
	"os"
	"strings"
)

const (
	ContextUserKey      = "user"
	ContextRequestIDKey = "request_id"
)

type Role string

const (
	RoleEngineer Role = "engineer"
	RoleManager  Role = "manager"
	RoleClient   Role = "client"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEngineer, RoleManager, RoleClient, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated requester as seen by the services layer.
type Actor struct {
	ID        uint
	Role      Role
	CompanyID *uint
}

// InCompany reports whether the actor is affiliated with companyID.
func (a Actor) InCompany(companyID uint) bool {
	return a.CompanyID != nil && *a.CompanyID == companyID
}

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// AllowedOriginsFromEnv returns the development origins plus CLIENT_URL and
// the comma separated ALLOWED_ORIGINS.
func AllowedOriginsFromEnv() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		origins = append(origins, SplitOrigins(allowedOrigins)...)
	}

	return origins
}

// SplitOrigins parses a comma separated origin list, dropping blanks.
func SplitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
