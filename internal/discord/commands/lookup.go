// Package commands implements the Tavern slash commands: SRD reference
// lookups, character generators, and guild settings management.
package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/tidwall/gjson"

	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/observe"
	"github.com/tavernbot/tavern/internal/srd"
)

// phbColor is the embed accent used for Player's Handbook content.
const phbColor = 0xEEEEA0

// minQueryLen is the shortest request worth searching for. Shorter
// queries substring-match most of the dataset and help nobody.
const minQueryLen = 3

// componentPrefix tags the custom_id of candidate-pick buttons so the
// router can dispatch them back to the lookup handler.
const componentPrefix = "lookup:"

// dismissID is the custom_id of the "None of these" button that closes
// out an ambiguous candidate list.
const dismissID = "lookup-dismiss"

// lookupSpec describes one reference lookup command.
type lookupSpec struct {
	command     string // slash command name, e.g. "spell"
	description string
	resource    string // srd resource key, e.g. "spells"
	plural      string // noun for "Couldn't find any <plural> that match..."
	render      func(rec gjson.Result) []*discordgo.MessageEmbed

	// retryCommas re-runs a failed search with the query's spaces
	// replaced by ", ". Equipment names read like "Crossbow, light".
	retryCommas bool
}

// LookupCommands handles the reference lookup slash commands.
type LookupCommands struct {
	lib     *srd.Library
	metrics *observe.Metrics
	specs   []lookupSpec

	// mu guards the tuning fields, which can change on config reload
	// while interaction handlers are running.
	mu        sync.RWMutex
	limit     int
	threshold float64
}

// NewLookupCommands creates a LookupCommands handler. limit bounds the
// number of collected matches per search (0 disables truncation) and
// threshold is the minimum Jaro-Winkler similarity for "did you mean"
// suggestions.
func NewLookupCommands(lib *srd.Library, metrics *observe.Metrics, limit int, threshold float64) *LookupCommands {
	lc := &LookupCommands{
		lib:       lib,
		metrics:   metrics,
		limit:     limit,
		threshold: threshold,
	}
	lc.specs = []lookupSpec{
		{
			command:     "spell",
			description: "Look up a spell by name",
			resource:    "spells",
			plural:      "spells",
			render:      spellEmbeds,
		},
		{
			command:     "condition",
			description: "Look up a condition by name",
			resource:    "conditions",
			plural:      "conditions",
			render:      conditionEmbeds,
		},
		{
			command:     "school",
			description: "Look up a school of magic by name",
			resource:    "magic-schools",
			plural:      "schools",
			render:      schoolEmbeds,
		},
		{
			command:     "damagetype",
			description: "Look up a damage type by name",
			resource:    "damage-types",
			plural:      "damage types",
			render:      damageTypeEmbeds,
		},
		{
			command:     "feature",
			description: "Look up a class feature by name",
			resource:    "features",
			plural:      "features",
			render:      featureEmbeds,
		},
		{
			command:     "language",
			description: "Look up a language by name",
			resource:    "languages",
			plural:      "languages",
			render:      languageEmbeds,
		},
		{
			command:     "trait",
			description: "Look up a racial trait by name",
			resource:    "traits",
			plural:      "traits",
			render:      traitEmbeds,
		},
		{
			command:     "monster",
			description: "Look up a monster by name",
			resource:    "monsters",
			plural:      "monsters",
			render:      monsterEmbeds,
		},
		{
			command:     "equipment",
			description: "Look up an equipment piece by name",
			resource:    "equipment",
			plural:      "equipment pieces",
			render:      equipmentEmbeds,
			retryCommas: true,
		},
	}
	return lc
}

// Register registers all lookup commands, their autocomplete handlers,
// and the candidate-pick component handler with the router.
func (lc *LookupCommands) Register(router *discord.CommandRouter) {
	for _, spec := range lc.specs {
		router.RegisterCommand(spec.command, lookupDefinition(spec), func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			lc.handle(s, i, spec)
		})
		router.RegisterAutocomplete(spec.command, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			lc.autocomplete(s, i, spec)
		})
	}
	router.RegisterComponentPrefix(componentPrefix, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		lc.handlePick(s, i)
	})
	router.RegisterComponent(dismissID, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		discord.RespondEphemeral(s, i, "Okay. Try a more specific request.")
	})
}

// Definitions returns the ApplicationCommand definitions of every lookup
// command, in registration order.
func (lc *LookupCommands) Definitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, len(lc.specs))
	for i, spec := range lc.specs {
		defs[i] = lookupDefinition(spec)
	}
	return defs
}

// SetTuning updates the search limit and suggestion threshold. Safe to
// call while handlers are running; used by config hot-reload.
func (lc *LookupCommands) SetTuning(limit int, threshold float64) {
	lc.mu.Lock()
	lc.limit = limit
	lc.threshold = threshold
	lc.mu.Unlock()
}

// tuning returns the current search limit and suggestion threshold.
func (lc *LookupCommands) tuning() (int, float64) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.limit, lc.threshold
}

// lookupDefinition builds the ApplicationCommand for one lookup spec.
// Every lookup command takes a single required "name" option.
func lookupDefinition(spec lookupSpec) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        spec.command,
		Description: spec.description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:         "name",
				Description:  "Name to search for",
				Type:         discordgo.ApplicationCommandOptionString,
				Required:     true,
				Autocomplete: true,
			},
		},
	}
}

// handle runs one lookup: search, disambiguate, render.
func (lc *LookupCommands) handle(s discord.Responder, i *discordgo.InteractionCreate, spec lookupSpec) {
	query := strings.TrimSpace(stringOption(i, "name"))
	if len(query) < minQueryLen {
		discord.RespondEphemeral(s, i, "Request too short.")
		lc.recordCommand(spec.command, "too_short")
		return
	}

	limit, threshold := lc.tuning()

	start := time.Now()
	matches, truncated := lc.lib.Search(spec.resource, "name", query, limit)
	lc.recordSearch(spec.resource, time.Since(start), truncated)
	if len(matches) == 0 && spec.retryCommas {
		matches, truncated = lc.lib.Search(spec.resource, "name", commaJoin(query), limit)
	}

	names := make([]string, len(matches))
	for n, m := range matches {
		names[n] = m.Name
	}

	switch res := srd.Disambiguate(query, names); res.Outcome {
	case srd.OutcomeNotFound:
		msg := fmt.Sprintf("Couldn't find any %s that match '%s'.", spec.plural, query)
		if hints := lc.lib.Suggest(spec.resource, query, threshold); len(hints) > 0 {
			msg += fmt.Sprintf(" Did you mean **%s**?", strings.Join(hints, "** or **"))
		}
		discord.Respond(s, i, msg)
		lc.recordCommand(spec.command, "not_found")

	case srd.OutcomeAmbiguous:
		content := fmt.Sprintf("Could be: **%s**.", strings.Join(res.Candidates, " - "))
		if truncated {
			content += " ...and more. Try a longer request."
		}
		discord.RespondComponents(s, i, content, candidateButtons(spec.command, res.Candidates))
		lc.recordCommand(spec.command, "ambiguous")

	case srd.OutcomeResolved:
		discord.RespondEmbeds(s, i, spec.render(matches[res.Index].Record))
		lc.recordCommand(spec.command, "resolved")
	}
}

// handlePick resolves a candidate button press. The custom_id carries
// "lookup:<command>:<record name>".
func (lc *LookupCommands) handlePick(s discord.Responder, i *discordgo.InteractionCreate) {
	parts := strings.SplitN(i.MessageComponentData().CustomID, ":", 3)
	if len(parts) != 3 {
		discord.RespondEphemeral(s, i, "Unknown selection.")
		return
	}
	command, name := parts[1], parts[2]
	limit, _ := lc.tuning()

	for _, spec := range lc.specs {
		if spec.command != command {
			continue
		}
		matches, _ := lc.lib.Search(spec.resource, "name", name, limit)
		for _, m := range matches {
			if strings.EqualFold(m.Name, name) {
				discord.RespondEmbeds(s, i, spec.render(m.Record))
				lc.recordCommand(spec.command, "resolved")
				return
			}
		}
		break
	}
	discord.RespondEphemeral(s, i, fmt.Sprintf("Couldn't look up '%s' anymore.", name))
}

// autocomplete offers record names containing the partial input.
func (lc *LookupCommands) autocomplete(s discord.Responder, i *discordgo.InteractionCreate, spec lookupSpec) {
	partial := strings.ToLower(focusedOption(i))

	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, name := range lc.lib.Names(spec.resource) {
		if partial != "" && !strings.Contains(strings.ToLower(name), partial) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: name,
		})
		// Discord limits autocomplete to 25 choices.
		if len(choices) >= 25 {
			break
		}
	}
	discord.RespondChoices(s, i, choices)
}

func (lc *LookupCommands) recordCommand(command, outcome string) {
	if lc.metrics != nil {
		lc.metrics.RecordCommand(context.Background(), command, outcome)
	}
}

func (lc *LookupCommands) recordSearch(resource string, elapsed time.Duration, truncated bool) {
	if lc.metrics != nil {
		lc.metrics.RecordSearch(context.Background(), resource, elapsed.Seconds(), truncated)
	}
}

// candidateButtons builds pick buttons for ambiguous matches plus a
// trailing dismiss button, five per action row. Discord allows five rows
// of five components, so candidates are capped at 24 to leave room.
func candidateButtons(command string, candidates []string) []discordgo.MessageComponent {
	if len(candidates) > 24 {
		candidates = candidates[:24]
	}
	buttons := make([]discordgo.MessageComponent, 0, len(candidates)+1)
	for _, name := range candidates {
		buttons = append(buttons, discordgo.Button{
			Label:    name,
			Style:    discordgo.SecondaryButton,
			CustomID: componentPrefix + command + ":" + name,
		})
	}
	buttons = append(buttons, discordgo.Button{
		Label:    "None of these",
		Style:    discordgo.DangerButton,
		CustomID: dismissID,
	})

	var rows []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := min(len(buttons), 5)
		rows = append(rows, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return rows
}

// commaJoin rewrites "crossbow light" as "crossbow, light" for equipment
// names stored with comma-separated qualifiers.
func commaJoin(query string) string {
	return strings.Join(strings.Fields(query), ", ")
}

// stringOption extracts a top-level string option value from an interaction.
func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// focusedOption returns the value of the focused autocomplete option,
// looking through one level of subcommand nesting.
func focusedOption(i *discordgo.InteractionCreate) string {
	opts := i.ApplicationCommandData().Options
	if len(opts) > 0 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		opts = opts[0].Options
	}
	for _, opt := range opts {
		if opt.Focused {
			return opt.StringValue()
		}
	}
	return ""
}

// subcommandStringOption extracts a string option value from a subcommand
// interaction.
func subcommandStringOption(i *discordgo.InteractionCreate, name string) string {
	data := i.ApplicationCommandData()
	if len(data.Options) > 0 && data.Options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		for _, opt := range data.Options[0].Options {
			if opt.Name == name {
				return opt.StringValue()
			}
		}
	}
	return ""
}
