package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/discord/mock"
	"github.com/tavernbot/tavern/internal/namegen"
)

const tablesYAML = `
dwarf:
  m:
    syl: [0, 1]
    syllable_structures: [1, 1]
    vowels: [1, 0]
    onset: {b: 1, d: 1, g: 1}
    nucleus: {a: 1, o: 1, u: 1}
    length: {"": 3, "ː": 1}
    coda: {r: 1, n: 1, k: 1}
elf:
  f:
    syl: [1]
    syllable_structures: [1, 0]
    vowels: [1, 0]
    onset: {l: 1, s: 1}
    nucleus: {a: 1, e: 1, i: 1}
    length: {"": 1}
`

func newTestGenerate(t *testing.T) *GenerateCommands {
	t.Helper()
	dir := t.TempDir()

	tablesPath := filepath.Join(dir, "tables.yaml")
	if err := os.WriteFile(tablesPath, []byte(tablesYAML), 0o644); err != nil {
		t.Fatalf("write tables: %v", err)
	}
	gen, err := namegen.Load(tablesPath)
	if err != nil {
		t.Fatalf("namegen.Load: %v", err)
	}

	bondsPath := filepath.Join(dir, "bonds.txt")
	flawsPath := filepath.Join(dir, "flaws.txt")
	if err := os.WriteFile(bondsPath, []byte("I owe everything to my mentor.\n"), 0o644); err != nil {
		t.Fatalf("write bonds: %v", err)
	}
	if err := os.WriteFile(flawsPath, []byte("I can't resist a pretty face.\n"), 0o644); err != nil {
		t.Fatalf("write flaws: %v", err)
	}
	lists, err := namegen.LoadLists(bondsPath, flawsPath)
	if err != nil {
		t.Fatalf("namegen.LoadLists: %v", err)
	}

	return NewGenerateCommands(gen, lists, nil)
}

// generateInteraction builds a /generate subcommand interaction.
func generateInteraction(sub string, opts map[string]string) *discordgo.InteractionCreate {
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
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "generate",
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

func TestGenerateDefinition(t *testing.T) {
	t.Parallel()

	gc := newTestGenerate(t)
	def := gc.Definition()

	if def.Name != "generate" {
		t.Errorf("Name = %q, want %q", def.Name, "generate")
	}

	expectedSubs := []string{"name", "bond", "flaw"}
	if len(def.Options) != len(expectedSubs) {
		t.Fatalf("Options count = %d, want %d", len(def.Options), len(expectedSubs))
	}
	for i, name := range expectedSubs {
		if def.Options[i].Name != name {
			t.Errorf("subcommand[%d] = %q, want %q", i, def.Options[i].Name, name)
		}
		if def.Options[i].Type != discordgo.ApplicationCommandOptionSubCommand {
			t.Errorf("subcommand[%d] type = %d, want SubCommand", i, def.Options[i].Type)
		}
	}

	// Verify name takes race (autocomplete) and gender (choices) options.
	nameOpts := def.Options[0].Options
	if len(nameOpts) != 2 {
		t.Fatalf("name options count = %d, want 2", len(nameOpts))
	}
	if nameOpts[0].Name != "race" || !nameOpts[0].Autocomplete {
		t.Errorf("name option[0] = %+v, want autocomplete race", nameOpts[0])
	}
	if nameOpts[1].Name != "gender" || len(nameOpts[1].Choices) != 2 {
		t.Errorf("name option[1] = %+v, want gender with 2 choices", nameOpts[1])
	}
}

func TestGenerateName(t *testing.T) {
	t.Parallel()

	gc := newTestGenerate(t)
	resp := &mock.InteractionResponder{}

	gc.handleName(resp, generateInteraction("name", map[string]string{
		"race":   "dwarf",
		"gender": "m",
	}))

	last := resp.LastResponse()
	if last == nil {
		t.Fatal("no response recorded")
	}
	content := last.Data.Content
	if !strings.HasPrefix(content, "**") || !strings.HasSuffix(content, "**") {
		t.Errorf("content = %q, want bolded name", content)
	}
	name := strings.Trim(content, "*")
	if name == "" {
		t.Error("generated name is empty")
	}
	for _, r := range name {
		if !strings.ContainsRune("bdgaouːrnk", r) {
			t.Errorf("name %q contains %q outside the dwarf inventory", name, r)
		}
	}
}

func TestGenerateName_UnknownRace(t *testing.T) {
	t.Parallel()

	gc := newTestGenerate(t)
	resp := &mock.InteractionResponder{}

	gc.handleName(resp, generateInteraction("name", map[string]string{
		"race":   "tiefling",
		"gender": "m",
	}))

	last := resp.LastResponse()
	if last == nil {
		t.Fatal("no response recorded")
	}
	if !strings.Contains(last.Data.Content, "Can't generate that name") {
		t.Errorf("content = %q, want generation error", last.Data.Content)
	}
	if last.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("error response should be ephemeral")
	}
}

func TestGenerateBondAndFlaw(t *testing.T) {
	t.Parallel()

	gc := newTestGenerate(t)

	resp := &mock.InteractionResponder{}
	gc.handleBond(resp, generateInteraction("bond", nil))
	if got := resp.LastResponse().Data.Content; got != "I owe everything to my mentor." {
		t.Errorf("bond = %q", got)
	}

	resp.Reset()
	gc.handleFlaw(resp, generateInteraction("flaw", nil))
	if got := resp.LastResponse().Data.Content; got != "I can't resist a pretty face." {
		t.Errorf("flaw = %q", got)
	}
}

func TestGenerateRaceAutocomplete(t *testing.T) {
	t.Parallel()

	gc := newTestGenerate(t)
	resp := &mock.InteractionResponder{}

	i := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommandAutocomplete,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "generate",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "name",
						Type: discordgo.ApplicationCommandOptionSubCommand,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{
								Name:    "race",
								Type:    discordgo.ApplicationCommandOptionString,
								Value:   "dw",
								Focused: true,
							},
						},
					},
				},
			},
		},
	}
	gc.handleRaceAutocomplete(resp, i)

	choices := resp.LastResponse().Data.Choices
	if len(choices) != 1 {
		t.Fatalf("choice count = %d, want 1", len(choices))
	}
	if choices[0].Name != "dwarf" {
		t.Errorf("choice = %q, want %q", choices[0].Name, "dwarf")
	}
}

func TestGenerateRegister(t *testing.T) {
	t.Parallel()

	gc := newTestGenerate(t)
	router := discord.NewCommandRouter()
	gc.Register(router)

	cmds := router.ApplicationCommands()
	if len(cmds) != 1 {
		t.Fatalf("expected 1 application command, got %d", len(cmds))
	}
	if cmds[0].Name != "generate" {
		t.Errorf("command name = %q, want %q", cmds[0].Name, "generate")
	}
}
