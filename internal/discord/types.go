// Package discord holds the wire-level pieces of the bot: interaction
// payload types, request signature verification, the REST client used for
// role queries and grants, the slash-command schema, and the rendering of
// command outcomes into interaction responses.
package discord

import "encoding/json"

// Interaction types we handle. Discord sends PING during the webhook
// handshake and APPLICATION_COMMAND for slash commands.
const (
	InteractionTypePing               = 1
	InteractionTypeApplicationCommand = 2
)

// Interaction response types.
const (
	ResponseTypePong                     = 1
	ResponseTypeChannelMessageWithSource = 4
)

// FlagEphemeral marks a response message visible only to the invoking user.
const FlagEphemeral = 1 << 6

// Interaction is the subset of Discord's interaction payload the bot reads.
type Interaction struct {
	Type    int             `json:"type"`
	GuildID string          `json:"guild_id"`
	Member  *Member         `json:"member"`
	Data    InteractionData `json:"data"`
}

// Member carries the invoking guild member.
type Member struct {
	User  User     `json:"user"`
	Roles []string `json:"roles"`
}

// User is a Discord user reference.
type User struct {
	ID string `json:"id"`
}

// InteractionData is the command payload of an APPLICATION_COMMAND.
type InteractionData struct {
	Name    string          `json:"name"`
	Options []CommandOption `json:"options"`
}

// CommandOption is one argument of a slash command. Values arrive as JSON
// scalars; the bot only uses string-valued options (user ids come through as
// snowflake strings).
type CommandOption struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// StringValue decodes the option value as a string.
func (o CommandOption) StringValue() (string, error) {
	var s string
	if err := json.Unmarshal(o.Value, &s); err != nil {
		return "", err
	}
	return s, nil
}

// OptionString finds a named option and returns its string value. Empty
// string when the option is absent or not a string.
func (d InteractionData) OptionString(name string) string {
	for _, opt := range d.Options {
		if opt.Name == name {
			s, err := opt.StringValue()
			if err != nil {
				return ""
			}
			return s
		}
	}
	return ""
}

// Response is an interaction response envelope.
type Response struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData is the message content of a CHANNEL_MESSAGE_WITH_SOURCE
// response.
type ResponseData struct {
	Content string `json:"content"`
	Flags   int    `json:"flags,omitempty"`
}

// Pong is the fixed reply to the webhook handshake.
func Pong() Response {
	return Response{Type: ResponseTypePong}
}

// Message builds a visible channel message response.
func Message(content string) Response {
	return Response{
		Type: ResponseTypeChannelMessageWithSource,
		Data: &ResponseData{Content: content},
	}
}

// EphemeralMessage builds a response only the invoking user sees.
func EphemeralMessage(content string) Response {
	return Response{
		Type: ResponseTypeChannelMessageWithSource,
		Data: &ResponseData{Content: content, Flags: FlagEphemeral},
	}
}
