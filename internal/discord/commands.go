package discord

// Slash-command schema, shared between runtime dispatch and registration
// (cmd/register uploads it to the Discord API).

// Application command option types.
const (
	OptionTypeString = 3
	OptionTypeUser   = 6
)

// Command names dispatched by the webhook handler.
const (
	CommandVouch   = "vouch"
	CommandUnvouch = "unvouch"
	CommandVouches = "vouches"
)

// Option names within the commands.
const (
	OptionUser   = "user"
	OptionReason = "reason"
)

// Command is an application command definition for registration.
type Command struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []CommandSchema `json:"options,omitempty"`
}

// CommandSchema is one declared option of a command.
type CommandSchema struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        int    `json:"type"`
	Required    bool   `json:"required"`
}

// Commands returns the full schema the bot registers.
func Commands() []Command {
	return []Command{
		{
			Name:        CommandVouch,
			Description: "Vouch for a user",
			Options: []CommandSchema{
				{Name: OptionUser, Description: "User to vouch for", Type: OptionTypeUser, Required: true},
				{Name: OptionReason, Description: "Reason for vouching", Type: OptionTypeString, Required: true},
			},
		},
		{
			Name:        CommandUnvouch,
			Description: "Retract your vouch for a user",
			Options: []CommandSchema{
				{Name: OptionUser, Description: "User to retract the vouch from", Type: OptionTypeUser, Required: true},
			},
		},
		{
			Name:        CommandVouches,
			Description: "List the vouches a user has received",
			Options: []CommandSchema{
				{Name: OptionUser, Description: "User to look up", Type: OptionTypeUser, Required: true},
			},
		},
	}
}
