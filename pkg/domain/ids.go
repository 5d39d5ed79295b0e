// Package domain holds typed identifiers shared across the service.
//
// Discord identifies users, guilds, and roles with snowflake ids: decimal
// strings minted from a timestamp plus worker/sequence bits. The typed
// wrappers below keep the three id spaces from being mixed up in signatures,
// and the Parse* constructors enforce shape at trust boundaries; direct
// casting bypasses validation.
package domain

import "fmt"

// UserID identifies a Discord user.
type UserID string

// GuildID identifies a Discord guild (server).
type GuildID string

// RoleID identifies a role within a guild.
type RoleID string

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	if err := validateSnowflake(s); err != nil {
		return "", fmt.Errorf("user id: %w", err)
	}
	return UserID(s), nil
}

// ParseGuildID constructs a GuildID from external input.
func ParseGuildID(s string) (GuildID, error) {
	if err := validateSnowflake(s); err != nil {
		return "", fmt.Errorf("guild id: %w", err)
	}
	return GuildID(s), nil
}

// ParseRoleID constructs a RoleID from external input.
func ParseRoleID(s string) (RoleID, error) {
	if err := validateSnowflake(s); err != nil {
		return "", fmt.Errorf("role id: %w", err)
	}
	return RoleID(s), nil
}

func (u UserID) String() string  { return string(u) }
func (g GuildID) String() string { return string(g) }
func (r RoleID) String() string  { return string(r) }

// IsNil reports whether the id is unset.
func (u UserID) IsNil() bool  { return u == "" }
func (g GuildID) IsNil() bool { return g == "" }
func (r RoleID) IsNil() bool  { return r == "" }

// Snowflakes are 64-bit unsigned decimals; anything Discord has minted to
// date is 17-20 digits, but the format only promises "fits in uint64".
const maxSnowflakeLen = 20

func validateSnowflake(s string) error {
	if s == "" {
		return fmt.Errorf("empty snowflake")
	}
	if len(s) > maxSnowflakeLen {
		return fmt.Errorf("snowflake too long: %d digits", len(s))
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return fmt.Errorf("snowflake contains non-digit %q", c)
		}
	}
	return nil
}
