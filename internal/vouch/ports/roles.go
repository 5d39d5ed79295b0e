// Package ports declares the narrow collaborator interfaces the vouch
// service needs from the chat platform. Keeping them here lets the domain
// stay testable without a live Discord connection; tests inject fakes.
package ports

import (
	"context"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
)

// RoleClient answers role-membership questions and performs role grants.
type RoleClient interface {
	// HasRole reports whether user currently holds role in guild.
	HasRole(ctx context.Context, guild domain.GuildID, user domain.UserID, role domain.RoleID) (bool, error)

	// GrantRole adds role to user in guild. A nil error means the platform
	// accepted the grant; any error means it did not, with no assumption
	// about status-code conventions.
	GrantRole(ctx context.Context, guild domain.GuildID, user domain.UserID, role domain.RoleID) error
}
