package services

import (
	"strings"

	"github.com/defectrack/defectrack/internal/types"
)

// Authorize fails with Forbidden unless actor holds one of roles.
func Authorize(actor types.Actor, roles ...types.Role) error {
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	return forbidden("Only %s can perform this action", strings.Join(names, " or "))
}

// isManagerOf reports whether actor is the manager recorded on a project.
func isManagerOf(actor types.Actor, managerID *uint) bool {
	return managerID != nil && *managerID == actor.ID
}
