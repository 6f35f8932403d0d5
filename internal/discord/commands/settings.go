package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/guildstore"
	"github.com/tavernbot/tavern/internal/observe"
)

// storeTimeout bounds guild settings database calls made from
// interaction handlers.
const storeTimeout = 5 * time.Second

// SettingsCommands handles the /settings command group backed by the
// guild settings store. Mutating subcommands require the admin role.
type SettingsCommands struct {
	store   guildstore.Store
	cache   *guildstore.Cache
	perms   *discord.PermissionChecker
	metrics *observe.Metrics
}

// NewSettingsCommands creates a SettingsCommands handler.
func NewSettingsCommands(store guildstore.Store, cache *guildstore.Cache, perms *discord.PermissionChecker, metrics *observe.Metrics) *SettingsCommands {
	return &SettingsCommands{store: store, cache: cache, perms: perms, metrics: metrics}
}

// Register registers all /settings subcommands with the router.
func (sc *SettingsCommands) Register(router *discord.CommandRouter) {
	def := sc.Definition()
	router.RegisterCommand("settings", def, func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		discord.RespondEphemeral(s, i, "Please use a subcommand: `/settings show`, `/settings prefix`, `/settings subreddit-add`, `/settings subreddit-remove`.")
	})
	router.RegisterHandler("settings/show", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		sc.handleShow(s, i)
	})
	router.RegisterHandler("settings/prefix", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		sc.handlePrefix(s, i)
	})
	router.RegisterHandler("settings/subreddit-add", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		sc.handleSubredditAdd(s, i)
	})
	router.RegisterHandler("settings/subreddit-remove", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		sc.handleSubredditRemove(s, i)
	})
}

// Definition returns the /settings ApplicationCommand for Discord
// registration.
func (sc *SettingsCommands) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "settings",
		Description: "Manage guild settings",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "show",
				Description: "Show the current guild settings",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
			{
				Name:        "prefix",
				Description: "Set the text command prefix for this guild",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "value",
						Description: "New prefix (a single short token)",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
					},
				},
			},
			{
				Name:        "subreddit-add",
				Description: "Add a subreddit to this guild's content feed",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "name",
						Description: "Subreddit name without the r/ prefix",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
					},
				},
			},
			{
				Name:        "subreddit-remove",
				Description: "Remove a subreddit from this guild's content feed",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{
						Name:        "name",
						Description: "Subreddit name without the r/ prefix",
						Type:        discordgo.ApplicationCommandOptionString,
						Required:    true,
					},
				},
			},
		},
	}
}

// handleShow handles /settings show.
func (sc *SettingsCommands) handleShow(s discord.Responder, i *discordgo.InteractionCreate) {
	guildID := i.GuildID
	if guildID == "" {
		discord.RespondEphemeral(s, i, "Settings are only available inside a guild.")
		return
	}

	prefix := sc.cache.Prefix(guildID)
	subreddits := sc.cache.Subreddits(guildID)

	subs := "none"
	if len(subreddits) > 0 {
		subs = "r/" + strings.Join(subreddits, ", r/")
	}
	embed := &discordgo.MessageEmbed{
		Title: "Guild Settings",
		Color: phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prefix", Value: fmt.Sprintf("`%s`", prefix), Inline: true},
			{Name: "Subreddits", Value: subs, Inline: true},
		},
	}
	discord.RespondEmbeds(s, i, []*discordgo.MessageEmbed{embed})
	sc.recordCommand("settings/show", "ok")
}

// handlePrefix handles /settings prefix <value>.
func (sc *SettingsCommands) handlePrefix(s discord.Responder, i *discordgo.InteractionCreate) {
	guildID, ok := sc.requireAdmin(s, i)
	if !ok {
		return
	}

	prefix := strings.TrimSpace(subcommandStringOption(i, "value"))
	if prefix == "" || len(prefix) > 8 {
		discord.RespondEphemeral(s, i, "Prefix must be between 1 and 8 characters.")
		return
	}

	err := sc.mutate(guildID, func(set *guildstore.Settings) {
		set.Prefix = prefix
	})
	if err != nil {
		sc.storeError(s, i, "upsert", err)
		return
	}

	discord.RespondEphemeral(s, i, fmt.Sprintf("Prefix changed to `%s`.", prefix))
	sc.recordCommand("settings/prefix", "ok")
}

// handleSubredditAdd handles /settings subreddit-add <name>.
func (sc *SettingsCommands) handleSubredditAdd(s discord.Responder, i *discordgo.InteractionCreate) {
	guildID, ok := sc.requireAdmin(s, i)
	if !ok {
		return
	}

	name := normalizeSubreddit(subcommandStringOption(i, "name"))
	if name == "" {
		discord.RespondEphemeral(s, i, "That doesn't look like a subreddit name.")
		return
	}

	var already bool
	err := sc.mutate(guildID, func(set *guildstore.Settings) {
		if slices.Contains(set.Subreddits, name) {
			already = true
			return
		}
		set.Subreddits = append(set.Subreddits, name)
	})
	if err != nil {
		sc.storeError(s, i, "upsert", err)
		return
	}
	if already {
		discord.RespondEphemeral(s, i, fmt.Sprintf("r/%s is already on the list.", name))
		return
	}

	discord.RespondEphemeral(s, i, fmt.Sprintf("Added r/%s.", name))
	sc.recordCommand("settings/subreddit-add", "ok")
}

// handleSubredditRemove handles /settings subreddit-remove <name>.
func (sc *SettingsCommands) handleSubredditRemove(s discord.Responder, i *discordgo.InteractionCreate) {
	guildID, ok := sc.requireAdmin(s, i)
	if !ok {
		return
	}

	name := normalizeSubreddit(subcommandStringOption(i, "name"))

	var found bool
	err := sc.mutate(guildID, func(set *guildstore.Settings) {
		idx := slices.Index(set.Subreddits, name)
		if idx < 0 {
			return
		}
		found = true
		set.Subreddits = slices.Delete(set.Subreddits, idx, idx+1)
	})
	if err != nil {
		sc.storeError(s, i, "upsert", err)
		return
	}
	if !found {
		discord.RespondEphemeral(s, i, fmt.Sprintf("r/%s is not on the list.", name))
		return
	}

	discord.RespondEphemeral(s, i, fmt.Sprintf("Removed r/%s.", name))
	sc.recordCommand("settings/subreddit-remove", "ok")
}

// requireAdmin checks the guild context and the admin role, responding
// with the refusal itself. Returns the guild ID and whether to proceed.
func (sc *SettingsCommands) requireAdmin(s discord.Responder, i *discordgo.InteractionCreate) (string, bool) {
	if i.GuildID == "" {
		discord.RespondEphemeral(s, i, "Settings are only available inside a guild.")
		return "", false
	}
	if !sc.perms.IsAdmin(i) {
		discord.RespondEphemeral(s, i, "You need the admin role to change guild settings.")
		return "", false
	}
	return i.GuildID, true
}

// mutate loads the guild's settings, applies fn, writes them back, and
// refreshes the read cache.
func (sc *SettingsCommands) mutate(guildID string, fn func(*guildstore.Settings)) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	set, err := sc.store.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if set == nil {
		set = &guildstore.Settings{GuildID: guildID}
	}
	fn(set)
	if err := sc.store.Upsert(ctx, set); err != nil {
		return err
	}
	return sc.cache.Refresh(ctx)
}

func (sc *SettingsCommands) storeError(s discord.Responder, i *discordgo.InteractionCreate, op string, err error) {
	if sc.metrics != nil {
		sc.metrics.RecordStoreError(context.Background(), op)
	}
	discord.RespondError(s, i, err)
}

func (sc *SettingsCommands) recordCommand(command, outcome string) {
	if sc.metrics != nil {
		sc.metrics.RecordCommand(context.Background(), command, outcome)
	}
}

// normalizeSubreddit strips an optional "r/" prefix and lowercases the
// name.
func normalizeSubreddit(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.TrimPrefix(name, "r/")
	if strings.ContainsAny(name, " /") {
		return ""
	}
	return name
}
