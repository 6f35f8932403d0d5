package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/namegen"
	"github.com/tavernbot/tavern/internal/observe"
)

// GenerateCommands handles the /generate command group: character names
// from the phonology tables, and bonds and flaws from the trait lists.
type GenerateCommands struct {
	gen     *namegen.Generator
	lists   *namegen.Lists
	metrics *observe.Metrics
}

// NewGenerateCommands creates a GenerateCommands handler.
func NewGenerateCommands(gen *namegen.Generator, lists *namegen.Lists, metrics *observe.Metrics) *GenerateCommands {
	return &GenerateCommands{gen: gen, lists: lists, metrics: metrics}
}

// Register registers all /generate subcommands with the router.
func (gc *GenerateCommands) Register(router *discord.CommandRouter) {
	def := gc.Definition()
	router.RegisterCommand("generate", def, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		discord.RespondEphemeral(s, i, "Please use a subcommand: `/generate name`, `/generate bond`, `/generate flaw`.")
	})
	router.RegisterHandler("generate/name", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		gc.handleName(s, i)
	})
	router.RegisterHandler("generate/bond", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		gc.handleBond(s, i)
	})
	router.RegisterHandler("generate/flaw", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		gc.handleFlaw(s, i)
	})
	router.RegisterAutocomplete("generate/name", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		gc.handleRaceAutocomplete(s, i)
	})
}

// Definition returns the /generate ApplicationCommand for Discord
// registration.
func (gc *GenerateCommands) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "generate",
		Description: "Generate character details",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "name",
				Description: "Generate a character name",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:         "race",
						Description:  "Character race",
						Type:         discordgo.ApplicationCommandOptionString,
						Required:     true,
						Autocomplete: true,
					},
					{
						Name:        "gender",
						Description: "Character gender",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "male", Value: "m"},
							{Name: "female", Value: "f"},
						},
					},
				},
			},
			{
				Name:        "bond",
				Description: "Generate a character bond",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "flaw",
				Description: "Generate a character flaw",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}

// handleName handles /generate name <race> <gender>.
func (gc *GenerateCommands) handleName(s discord.Responder, i *discordgo.InteractionCreate) {
	if gc.gen == nil {
		discord.RespondEphemeral(s, i, "Name generation is not configured.")
		gc.recordCommand("generate/name", "unavailable")
		return
	}

	race := strings.ToLower(subcommandStringOption(i, "race"))
	gender := strings.ToLower(subcommandStringOption(i, "gender"))

	name, err := gc.gen.Generate(race, gender)
	if err != nil {
		discord.RespondEphemeral(s, i, fmt.Sprintf("Can't generate that name: %v", err))
		gc.recordCommand("generate/name", "error")
		return
	}

	discord.Respond(s, i, fmt.Sprintf("**%s**", name))
	gc.recordCommand("generate/name", "ok")
	if gc.metrics != nil {
		gc.metrics.RecordNameGenerated(context.Background(), race, gender)
	}
}

// handleBond handles /generate bond.
func (gc *GenerateCommands) handleBond(s discord.Responder, i *discordgo.InteractionCreate) {
	if gc.lists == nil {
		discord.RespondEphemeral(s, i, "Bond and flaw lists are not configured.")
		gc.recordCommand("generate/bond", "unavailable")
		return
	}
	discord.Respond(s, i, gc.lists.Bond())
	gc.recordCommand("generate/bond", "ok")
}

// handleFlaw handles /generate flaw.
func (gc *GenerateCommands) handleFlaw(s discord.Responder, i *discordgo.InteractionCreate) {
	if gc.lists == nil {
		discord.RespondEphemeral(s, i, "Bond and flaw lists are not configured.")
		gc.recordCommand("generate/flaw", "unavailable")
		return
	}
	discord.Respond(s, i, gc.lists.Flaw())
	gc.recordCommand("generate/flaw", "ok")
}

// handleRaceAutocomplete offers the races known to the phonology tables.
func (gc *GenerateCommands) handleRaceAutocomplete(s discord.Responder, i *discordgo.InteractionCreate) {
	if gc.gen == nil {
		discord.RespondChoices(s, i, nil)
		return
	}
	partial := strings.ToLower(focusedOption(i))

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, race := range gc.gen.Races() {
		if partial != "" && !strings.HasPrefix(race, partial) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  race,
			Value: race,
		})
		if len(choices) >= 25 {
			break
		}
	}
	discord.RespondChoices(s, i, choices)
}

func (gc *GenerateCommands) recordCommand(command, outcome string) {
	if gc.metrics != nil {
		gc.metrics.RecordCommand(context.Background(), command, outcome)
	}
}
