package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/pkg/domain"
)

// DefaultBaseURL is the Discord REST API root.
const DefaultBaseURL = "https://discord.com/api/v10"

// Client is the REST client behind the role-query and role-grant ports. It
// performs no retries; callers own retry policy.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption configures the REST client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root. Tests point this at httptest servers.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient builds a REST client authenticated with the bot token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasRole fetches the guild member and reports whether the role id appears
// in their role list.
func (c *Client) HasRole(ctx context.Context, guild domain.GuildID, user domain.UserID, role domain.RoleID) (bool, error) {
	url := fmt.Sprintf("%s/guilds/%s/members/%s", c.baseURL, guild, user)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build member request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("get guild member: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("get guild member: unexpected status %d", resp.StatusCode)
	}

	var member Member
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return false, fmt.Errorf("decode guild member: %w", err)
	}

	for _, r := range member.Roles {
		if r == role.String() {
			return true, nil
		}
	}
	return false, nil
}

// GrantRole adds the role to the member. Discord replies 204 on success;
// anything else is reported as a failure without interpreting the status
// further.
func (c *Client) GrantRole(ctx context.Context, guild domain.GuildID, user domain.UserID, role domain.RoleID) error {
	url := fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", c.baseURL, guild, user, role)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("build role grant request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	req.Header.Set("X-Audit-Log-Reason", "vouch threshold reached")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("grant role: unexpected status %d", resp.StatusCode)
	}
	return nil
}
