package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/tavernbot/tavern/internal/dice"
	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/observe"
)

// RollCommands handles the /roll command for dice expressions like
// "d20", "2d6+3", or "4d8-1".
type RollCommands struct {
	metrics *observe.Metrics
}

// NewRollCommands creates a RollCommands handler.
func NewRollCommands(metrics *observe.Metrics) *RollCommands {
	return &RollCommands{metrics: metrics}
}

// Register registers the /roll command with the router.
func (rc *RollCommands) Register(router *discord.CommandRouter) {
	router.RegisterCommand("roll", rc.Definition(), func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		rc.handle(s, i)
	})
}

// Definition returns the /roll ApplicationCommand for Discord
// registration.
func (rc *RollCommands) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "roll",
		Description: "Roll dice",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "dice",
				Description: "Dice expression, e.g. 2d6+3",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
		},
	}
}

func (rc *RollCommands) handle(s discord.Responder, i *discordgo.InteractionCreate) {
	expr, err := dice.Parse(stringOption(i, "dice"))
	if err != nil {
		discord.RespondEphemeral(s, i, fmt.Sprintf("Can't roll that: %v", err))
		rc.recordCommand("roll", "error")
		return
	}

	result := expr.Roll()
	discord.Respond(s, i, formatRoll(result))
	rc.recordCommand("roll", "ok")
}

// formatRoll renders a roll result, e.g.
// "🎲 2d6+3: [4 2] + 3 = **9**". Single-die rolls without a modifier
// skip the breakdown.
func formatRoll(r dice.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 %s: ", r.Expression)

	if r.Expression.Count > 1 || r.Expression.Modifier != 0 {
		b.WriteByte('[')
		for n, roll := range r.Rolls {
			if n > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(roll))
		}
		b.WriteByte(']')
		switch {
		case r.Expression.Modifier > 0:
			fmt.Fprintf(&b, " + %d", r.Expression.Modifier)
		case r.Expression.Modifier < 0:
			fmt.Fprintf(&b, " - %d", -r.Expression.Modifier)
		}
		b.WriteString(" = ")
	}

	fmt.Fprintf(&b, "**%d**", r.Total)
	return b.String()
}

func (rc *RollCommands) recordCommand(command, outcome string) {
	if rc.metrics != nil {
		rc.metrics.RecordCommand(context.Background(), command, outcome)
	}
}
