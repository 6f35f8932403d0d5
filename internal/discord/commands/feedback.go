package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/tavernbot/tavern/internal/discord"
)

// FeedbackStore persists user-submitted reports.
type FeedbackStore interface {
	SaveFeedback(fb Feedback) error
}

// Feedback holds one user report about the bot's reference data or
// behaviour.
type Feedback struct {
	GuildID  string
	UserID   string
	Category string
	Message  string
}

// FeedbackCommands handles the /feedback slash command.
type FeedbackCommands struct {
	store FeedbackStore
}

// NewFeedbackCommands creates a FeedbackCommands handler.
func NewFeedbackCommands(store FeedbackStore) *FeedbackCommands {
	return &FeedbackCommands{store: store}
}

// Register registers the /feedback command with the router.
func (fc *FeedbackCommands) Register(router *discord.CommandRouter) {
	router.RegisterCommand("feedback", fc.Definition(), func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		fc.handle(s, i)
	})
}

// Definition returns the /feedback ApplicationCommand for Discord
// registration.
func (fc *FeedbackCommands) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "feedback",
		Description: "Report wrong reference data or another problem",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "category",
				Description: "What the report is about",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "reference data", Value: "data"},
					{Name: "generators", Value: "generator"},
					{Name: "other", Value: "other"},
				},
			},
			{
				Name:        "message",
				Description: "Describe the problem",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
		},
	}
}

// handle processes a submitted report.
func (fc *FeedbackCommands) handle(s discord.Responder, i *discordgo.InteractionCreate) {
	fb := Feedback{
		GuildID:  i.GuildID,
		Category: stringOption(i, "category"),
		Message:  strings.TrimSpace(stringOption(i, "message")),
	}
	if i.Member != nil && i.Member.User != nil {
		fb.UserID = i.Member.User.ID
	} else if i.User != nil {
		fb.UserID = i.User.ID
	}

	if fb.Message == "" {
		discord.RespondEphemeral(s, i, "Please describe the problem.")
		return
	}

	if err := fc.store.SaveFeedback(fb); err != nil {
		slog.Error("failed to save feedback", "err", err)
		discord.RespondEphemeral(s, i, fmt.Sprintf("Failed to save feedback: %v", err))
		return
	}

	discord.RespondEphemeral(s, i, "Thank you, your report has been recorded.")
}
