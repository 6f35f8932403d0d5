package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/tidwall/gjson"

	"github.com/tavernbot/tavern/internal/discord"
	"github.com/tavernbot/tavern/internal/srd"
)

// spellEmbeds renders a spell the way it appears in the Player's
// Handbook. Long descriptions continue across additional embeds; the
// casting fields and the page footer go on the last one.
func spellEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	spell := srd.NewSpellInfo(rec)

	description := fmt.Sprintf("*%s*\n%s", spell.Subhead, spell.Description)
	if spell.HigherLevels != "" {
		description += "\n **At Higher Levels. **" + spell.HigherLevels
	}

	chunks := discord.SplitText(description, discord.EmbedDescriptionLimit)
	embeds := make([]*discordgo.MessageEmbed, len(chunks))
	for i, chunk := range chunks {
		title := spell.Name
		if i > 0 {
			title += " *(continued)*"
		}
		embeds[i] = &discordgo.MessageEmbed{
			Title:       title,
			Color:       phbColor,
			Description: chunk,
		}
	}

	last := embeds[len(embeds)-1]
	last.Fields = []*discordgo.MessageEmbedField{
		{Name: "Casting Time", Value: spell.CastingTime, Inline: true},
		{Name: "Range", Value: spell.CastingRange, Inline: true},
		{Name: "Components", Value: spell.Components, Inline: true},
		{Name: "Duration", Value: spell.Duration, Inline: true},
	}
	last.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Player's Handbook, page %s.", spell.Page),
	}
	return embeds
}

func conditionEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	cond := srd.NewConditionInfo(rec)
	return []*discordgo.MessageEmbed{{
		Color: phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: cond.Name, Value: cond.Description, Inline: true},
		},
	}}
}

func schoolEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	school := srd.NewSchoolInfo(rec)
	return []*discordgo.MessageEmbed{{
		Color: phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: school.Name, Value: school.Description, Inline: false},
		},
	}}
}

func damageTypeEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	dmg := srd.NewDamageTypeInfo(rec)
	return []*discordgo.MessageEmbed{{
		Color: phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: dmg.Name, Value: dmg.Description, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /damagetype to look up any of the damage types.",
		},
	}}
}

func featureEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	feature := srd.NewFeatureInfo(rec)

	var content string
	if feature.Level == 0 {
		content = fmt.Sprintf("*%s feature*\n", feature.Class)
	} else {
		content = fmt.Sprintf("*Level %d %s feature*\n", feature.Level, feature.Class)
	}
	content += feature.Description

	chunks := discord.SplitText(content, discord.EmbedDescriptionLimit)
	embeds := make([]*discordgo.MessageEmbed, len(chunks))
	for i, chunk := range chunks {
		title := feature.Name
		if i > 0 {
			title += " *(continued)*"
		}
		embeds[i] = &discordgo.MessageEmbed{
			Title:       title,
			Color:       phbColor,
			Description: chunk,
		}
	}
	return embeds
}

func languageEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	lang := srd.NewLanguageInfo(rec)
	content := fmt.Sprintf("%s is a %s language spoken mainly by %s.",
		lang.Name, lang.Type, lang.TypicalSpeakers)
	return []*discordgo.MessageEmbed{{
		Color: phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: lang.Name, Value: content, Inline: false},
		},
	}}
}

func traitEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	trait := srd.NewTraitInfo(rec)
	return []*discordgo.MessageEmbed{{
		Color: phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: trait.Name, Value: trait.Description, Inline: false},
			{
				Name:   "Races",
				Value:  "The following races can get this trait: " + trait.Races,
				Inline: false,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /trait to look up any of the traits.",
		},
	}}
}

// monsterEmbeds renders a monster as a stat-block embed followed by one
// or more action embeds.
func monsterEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	monster := srd.NewMonsterInfo(rec)

	stats := &discordgo.MessageEmbed{
		Title:       monster.Name,
		Description: fmt.Sprintf("*%s*", monster.Subhead),
		Color:       phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Attributes", Value: monster.Attributes, Inline: false},
			{Name: "Ability Scores", Value: monster.AbilityScores, Inline: false},
		},
	}
	if monster.Features != "" {
		stats.Fields = append(stats.Fields, &discordgo.MessageEmbedField{
			Name: "Features", Value: monster.Features, Inline: false,
		})
	}

	embeds := []*discordgo.MessageEmbed{stats}
	for i, chunk := range discord.SplitText(monster.Actions, discord.EmbedDescriptionLimit) {
		if chunk == "" {
			continue
		}
		title := "Actions"
		if i > 0 {
			title += " *(continued)*"
		}
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       title,
			Color:       phbColor,
			Description: chunk,
		})
	}
	return embeds
}

func equipmentEmbeds(rec gjson.Result) []*discordgo.MessageEmbed {
	eq := srd.NewEquipmentInfo(rec)
	return []*discordgo.MessageEmbed{{
		Color: phbColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: eq.Name, Value: eq.Context, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use /equipment to look up any of the equipment items.",
		},
	}}
}
