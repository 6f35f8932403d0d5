package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/discord/mock"
	"github.com/tavernbot/tavern/internal/guildstore"
)

// memStore is an in-memory guildstore.Store for handler tests.
type memStore struct {
	settings map[string]guildstore.Settings
}

func newMemStore() *memStore {
	return &memStore{settings: make(map[string]guildstore.Settings)}
}

func (m *memStore) Get(_ context.Context, guildID string) (*guildstore.Settings, error) {
	set, ok := m.settings[guildID]
	if !ok {
		return nil, nil
	}
	out := set
	return &out, nil
}

func (m *memStore) Upsert(_ context.Context, set *guildstore.Settings) error {
	if err := set.Validate(); err != nil {
		return err
	}
	stored := *set
	if stored.Prefix == "" {
		stored.Prefix = guildstore.DefaultPrefix
	}
	stored.UpdatedAt = time.Now()
	m.settings[set.GuildID] = stored
	return nil
}

func (m *memStore) Delete(_ context.Context, guildID string) error {
	delete(m.settings, guildID)
	return nil
}

func (m *memStore) List(_ context.Context) ([]guildstore.Settings, error) {
	out := make([]guildstore.Settings, 0, len(m.settings))
	for _, set := range m.settings {
		out = append(out, set)
	}
	return out, nil
}

func newTestSettings(t *testing.T, adminRole string) (*SettingsCommands, *memStore) {
	t.Helper()
	store := newMemStore()
	cache := guildstore.NewCache(store)
	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	perms := discord.NewPermissionChecker(adminRole)
	return NewSettingsCommands(store, cache, perms, nil), store
}

// settingsInteraction builds a /settings subcommand interaction from a
// guild member with the given roles.
func settingsInteraction(sub string, opts map[string]string, roles ...string) *discordgo.InteractionCreate {
	var options []*discordgo.ApplicationCommandInteractionDataOption
	for name, value := range opts {
		options = append(options, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  name,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: value,
		})
	}
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: "guild-1",
			Member:  &discordgo.Member{Roles: roles},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "settings",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:    sub,
						Type:    discordgo.ApplicationCommandOptionSubCommand,
						Options: options,
					},
				},
			},
		},
	}
}

func TestSettingsDefinition(t *testing.T) {
	t.Parallel()

	sc, _ := newTestSettings(t, "")
	def := sc.Definition()

	if def.Name != "settings" {
		t.Errorf("Name = %q, want %q", def.Name, "settings")
	}

	expectedSubs := []string{"show", "prefix", "subreddit-add", "subreddit-remove"}
	if len(def.Options) != len(expectedSubs) {
		t.Fatalf("Options count = %d, want %d", len(def.Options), len(expectedSubs))
	}
	for i, name := range expectedSubs {
		if def.Options[i].Name != name {
			t.Errorf("subcommand[%d] = %q, want %q", i, def.Options[i].Name, name)
		}
	}
}

func TestSettingsShow_Defaults(t *testing.T) {
	t.Parallel()

	sc, _ := newTestSettings(t, "")
	resp := &mock.InteractionResponder{}

	sc.handleShow(resp, settingsInteraction("show", nil))

	last := resp.LastResponse()
	if last == nil {
		t.Fatal("no response recorded")
	}
	embeds := last.Data.Embeds
	if len(embeds) != 1 {
		t.Fatalf("embed count = %d, want 1", len(embeds))
	}
	if got := embeds[0].Fields[0].Value; got != "`"+guildstore.DefaultPrefix+"`" {
		t.Errorf("prefix field = %q, want default prefix", got)
	}
	if got := embeds[0].Fields[1].Value; got != "none" {
		t.Errorf("subreddits field = %q, want %q", got, "none")
	}
}

func TestSettingsPrefix_PersistsAndRefreshesCache(t *testing.T) {
	t.Parallel()

	sc, store := newTestSettings(t, "")
	resp := &mock.InteractionResponder{}

	sc.handlePrefix(resp, settingsInteraction("prefix", map[string]string{"value": "!"}))

	last := resp.LastResponse()
	if last == nil {
		t.Fatal("no response recorded")
	}
	if !strings.Contains(last.Data.Content, "Prefix changed to `!`.") {
		t.Errorf("content = %q", last.Data.Content)
	}

	if got := store.settings["guild-1"].Prefix; got != "!" {
		t.Errorf("stored prefix = %q, want %q", got, "!")
	}
	if got := sc.cache.Prefix("guild-1"); got != "!" {
		t.Errorf("cached prefix = %q, want %q", got, "!")
	}
}

func TestSettingsPrefix_RejectsEmptyAndLong(t *testing.T) {
	t.Parallel()

	sc, store := newTestSettings(t, "")

	for _, prefix := range []string{"", "   ", "waytoolongprefix"} {
		resp := &mock.InteractionResponder{}
		sc.handlePrefix(resp, settingsInteraction("prefix", map[string]string{"value": prefix}))

		if !strings.Contains(resp.LastResponse().Data.Content, "between 1 and 8 characters") {
			t.Errorf("prefix %q: content = %q, want rejection", prefix, resp.LastResponse().Data.Content)
		}
	}
	if len(store.settings) != 0 {
		t.Error("rejected prefixes must not be stored")
	}
}

func TestSettingsSubredditAddRemove(t *testing.T) {
	t.Parallel()

	sc, _ := newTestSettings(t, "")
	resp := &mock.InteractionResponder{}

	sc.handleSubredditAdd(resp, settingsInteraction("subreddit-add", map[string]string{"name": "r/DnD"}))
	if !strings.Contains(resp.LastResponse().Data.Content, "Added r/dnd.") {
		t.Errorf("content = %q", resp.LastResponse().Data.Content)
	}

	// Adding again reports a duplicate.
	resp.Reset()
	sc.handleSubredditAdd(resp, settingsInteraction("subreddit-add", map[string]string{"name": "dnd"}))
	if !strings.Contains(resp.LastResponse().Data.Content, "already on the list") {
		t.Errorf("content = %q", resp.LastResponse().Data.Content)
	}

	if got := sc.cache.Subreddits("guild-1"); len(got) != 1 || got[0] != "dnd" {
		t.Errorf("cached subreddits = %v, want [dnd]", got)
	}

	resp.Reset()
	sc.handleSubredditRemove(resp, settingsInteraction("subreddit-remove", map[string]string{"name": "dnd"}))
	if !strings.Contains(resp.LastResponse().Data.Content, "Removed r/dnd.") {
		t.Errorf("content = %q", resp.LastResponse().Data.Content)
	}
	if got := sc.cache.Subreddits("guild-1"); len(got) != 0 {
		t.Errorf("cached subreddits = %v, want empty", got)
	}

	// Removing a missing entry reports it.
	resp.Reset()
	sc.handleSubredditRemove(resp, settingsInteraction("subreddit-remove", map[string]string{"name": "dnd"}))
	if !strings.Contains(resp.LastResponse().Data.Content, "not on the list") {
		t.Errorf("content = %q", resp.LastResponse().Data.Content)
	}
}

func TestSettings_RequiresAdminRole(t *testing.T) {
	t.Parallel()

	sc, store := newTestSettings(t, "role-admin")
	resp := &mock.InteractionResponder{}

	sc.handlePrefix(resp, settingsInteraction("prefix", map[string]string{"value": "!"}))
	if !strings.Contains(resp.LastResponse().Data.Content, "admin role") {
		t.Errorf("content = %q, want role refusal", resp.LastResponse().Data.Content)
	}
	if len(store.settings) != 0 {
		t.Error("refused change must not be stored")
	}

	// With the role, the change goes through.
	resp.Reset()
	sc.handlePrefix(resp, settingsInteraction("prefix", map[string]string{"value": "!"}, "role-admin"))
	if !strings.Contains(resp.LastResponse().Data.Content, "Prefix changed") {
		t.Errorf("content = %q, want success", resp.LastResponse().Data.Content)
	}
}

func TestNormalizeSubreddit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"DnD", "dnd"},
		{"r/DnD", "dnd"},
		{" r/dndnext ", "dndnext"},
		{"not a name", ""},
		{"a/b", ""},
	}
	for _, tc := range cases {
		if got := normalizeSubreddit(tc.in); got != tc.want {
			t.Errorf("normalizeSubreddit(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
