package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
)

// Config captures everything the bot needs from the environment so main
// stays lean.
type Config struct {
	Addr string

	// Discord credentials and identity.
	DiscordPublicKey     string
	DiscordApplicationID string
	DiscordToken         string

	// VouchedRoleID is the trusted role that both gates who may vouch and is
	// granted on promotion.
	VouchedRoleID domain.RoleID

	// PromotionThreshold is the number of distinct vouches required before a
	// role grant is attempted.
	PromotionThreshold int

	// Store backends. Postgres wins over Redis when both are set; neither
	// means the process-local in-memory store.
	DatabaseURL string
	RedisURL    string

	// SkipDiscordValidation disables interaction signature checks. Local
	// development only.
	SkipDiscordValidation bool
}

// DefaultPromotionThreshold is the vouch count that triggers a role grant
// when VOUCH_PROMOTION_THRESHOLD is unset.
const DefaultPromotionThreshold = 2

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:                  os.Getenv("VOUCH_BOT_ADDR"),
		DiscordPublicKey:      os.Getenv("DISCORD_PUBLIC_KEY"),
		DiscordApplicationID:  os.Getenv("DISCORD_APPLICATION_ID"),
		DiscordToken:          os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		RedisURL:              os.Getenv("REDIS_URL"),
		SkipDiscordValidation: os.Getenv("SKIP_DISCORD_VALIDATION") == "true",
		PromotionThreshold:    DefaultPromotionThreshold,
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	roleID, err := domain.ParseRoleID(os.Getenv("DISCORD_VOUCHED_ROLE_ID"))
	if err != nil {
		return Config{}, fmt.Errorf("DISCORD_VOUCHED_ROLE_ID: %w", err)
	}
	cfg.VouchedRoleID = roleID

	if raw := os.Getenv("VOUCH_PROMOTION_THRESHOLD"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 1 {
			return Config{}, fmt.Errorf("VOUCH_PROMOTION_THRESHOLD must be a positive integer, got %q", raw)
		}
		cfg.PromotionThreshold = threshold
	}

	if !cfg.SkipDiscordValidation && cfg.DiscordPublicKey == "" {
		return Config{}, fmt.Errorf("DISCORD_PUBLIC_KEY is required unless SKIP_DISCORD_VALIDATION=true")
	}

	return cfg, nil
}
