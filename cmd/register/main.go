// register uploads the bot's slash-command schema to the Discord API.
// Bulk-overwrite semantics: the uploaded set replaces whatever was
// registered before. Run once after changing internal/discord/commands.go.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/nelsonjchen/vouch-or-out-discord-bot/internal/discord"
)

func main() {
	appID := os.Getenv("DISCORD_APPLICATION_ID")
	token := os.Getenv("DISCORD_TOKEN")
	if appID == "" || token == "" {
		fmt.Fprintln(os.Stderr, "DISCORD_APPLICATION_ID and DISCORD_TOKEN are required")
		os.Exit(1)
	}

	payload, err := json.Marshal(discord.Commands())
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode commands: %v\n", err)
		os.Exit(1)
	}

	url := fmt.Sprintf("%s/applications/%s/commands", discord.DefaultBaseURL, appID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Authorization", "Bot "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register commands: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		fmt.Fprintf(os.Stderr, "register commands: status %d: %s\n", resp.StatusCode, body)
		os.Exit(1)
	}
	fmt.Printf("registered %d commands\n", len(discord.Commands()))
}
