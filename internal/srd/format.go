package srd

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// numAbbrevs spells out ordinal spell levels for subheads.
var numAbbrevs = [...]string{"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th", "9th"}

// paragraphIndent is an EM QUAD space, used to indent paragraphs after
// the first in a multi-paragraph description.
const paragraphIndent = "\n "

// SpellInfo holds the fields of a spell entry as they would appear in
// the Player's Handbook.
type SpellInfo struct {
	Name         string
	Subhead      string
	CastingTime  string
	CastingRange string
	Components   string
	Duration     string
	Description  string
	HigherLevels string // empty when the spell has no "At Higher Levels" section
	Page         string
}

// ConditionInfo is a normalized condition record.
type ConditionInfo struct {
	Name        string
	Description string
}

// SchoolInfo is a normalized school-of-magic record.
type SchoolInfo struct {
	Name        string
	Description string
}

// DamageTypeInfo is a normalized damage-type record.
type DamageTypeInfo struct {
	Name        string
	Description string
}

// FeatureInfo is a normalized class-feature record.
type FeatureInfo struct {
	Name        string
	Class       string
	Level       int // 0 when the feature has no level
	Description string
}

// LanguageInfo is a normalized language record.
type LanguageInfo struct {
	Name            string
	Type            string
	TypicalSpeakers string
}

// TraitInfo is a normalized racial-trait record.
type TraitInfo struct {
	Name        string
	Races       string
	Description string
}

// MonsterInfo is a normalized monster stat block.
type MonsterInfo struct {
	Name          string
	Subhead       string
	Attributes    string
	AbilityScores string
	Features      string
	Actions       string
}

// EquipmentInfo is a normalized equipment record.
type EquipmentInfo struct {
	Name    string
	Context string
}

// listToParagraphs joins a JSON array of strings into a single string of
// paragraphs, with each paragraph after the first indented.
func listToParagraphs(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	var parts []string
	v.ForEach(func(_, item gjson.Result) bool {
		parts = append(parts, item.String())
		return true
	})
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, paragraphIndent)
}

// NewSpellInfo extracts the display fields from a spell record in the
// dnd5eapi JSON schema. Deterministic and side-effect-free.
func NewSpellInfo(spell gjson.Result) SpellInfo {
	info := SpellInfo{
		Name:         spell.Get("name").String(),
		CastingTime:  spell.Get("casting_time").String(),
		CastingRange: spell.Get("range").String(),
		Duration:     spell.Get("duration").String(),
	}

	school := spell.Get("school.name").String()
	if spell.Get("level").Int() == 0 {
		// e.g. "Evocation cantrip"
		info.Subhead = school + " cantrip"
	} else {
		// e.g. "5th-level necromancy (ritual)"
		level := int(spell.Get("level").Int())
		info.Subhead = numAbbrevs[level-1] + "-level " + strings.ToLower(school)
		if spell.Get("ritual").String() == "yes" {
			info.Subhead += " (ritual)"
		}
	}

	var comps []string
	spell.Get("components").ForEach(func(_, c gjson.Result) bool {
		comps = append(comps, c.String())
		return true
	})
	info.Components = strings.Join(comps, ", ")
	if strings.Contains(info.Components, "M") {
		info.Components += " (" + spell.Get("material").String() + ")"
	}

	info.Description = listToParagraphs(spell.Get("desc"))
	if hl := spell.Get("higher_level"); hl.Exists() {
		info.HigherLevels = listToParagraphs(hl)
	}

	// Citations read like "phb 241"; keep the trailing page token.
	if fields := strings.Fields(spell.Get("page").String()); len(fields) > 0 {
		info.Page = fields[len(fields)-1]
	}
	return info
}

// NewConditionInfo extracts the display fields from a condition record.
func NewConditionInfo(rec gjson.Result) ConditionInfo {
	return ConditionInfo{
		Name:        rec.Get("name").String(),
		Description: listToParagraphs(rec.Get("desc")),
	}
}

// NewSchoolInfo extracts the display fields from a school-of-magic record.
func NewSchoolInfo(rec gjson.Result) SchoolInfo {
	return SchoolInfo{
		Name:        rec.Get("name").String(),
		Description: listToParagraphs(rec.Get("desc")),
	}
}

// NewDamageTypeInfo extracts the display fields from a damage-type record.
func NewDamageTypeInfo(rec gjson.Result) DamageTypeInfo {
	return DamageTypeInfo{
		Name:        rec.Get("name").String(),
		Description: listToParagraphs(rec.Get("desc")),
	}
}

// NewFeatureInfo extracts the display fields from a class-feature record.
func NewFeatureInfo(rec gjson.Result) FeatureInfo {
	return FeatureInfo{
		Name:        rec.Get("name").String(),
		Class:       rec.Get("class.name").String(),
		Level:       int(rec.Get("level").Int()),
		Description: listToParagraphs(rec.Get("desc")),
	}
}

// NewLanguageInfo extracts the display fields from a language record.
func NewLanguageInfo(rec gjson.Result) LanguageInfo {
	var speakers []string
	rec.Get("typical_speakers").ForEach(func(_, s gjson.Result) bool {
		speakers = append(speakers, s.String())
		return true
	})
	return LanguageInfo{
		Name:            rec.Get("name").String(),
		Type:            rec.Get("type").String(),
		TypicalSpeakers: strings.Join(speakers, ", "),
	}
}

// NewTraitInfo extracts the display fields from a racial-trait record.
func NewTraitInfo(rec gjson.Result) TraitInfo {
	var races []string
	rec.Get("races").ForEach(func(_, r gjson.Result) bool {
		if name := r.Get("name").String(); name != "" {
			races = append(races, name)
		}
		return true
	})
	return TraitInfo{
		Name:        rec.Get("name").String(),
		Races:       strings.Join(races, ", "),
		Description: listToParagraphs(rec.Get("desc")),
	}
}

// NewMonsterInfo extracts a display stat block from a monster record.
func NewMonsterInfo(rec gjson.Result) MonsterInfo {
	info := MonsterInfo{
		Name: rec.Get("name").String(),
		Subhead: fmt.Sprintf("%s %s, %s",
			rec.Get("size").String(),
			rec.Get("type").String(),
			rec.Get("alignment").String(),
		),
	}

	info.Attributes = fmt.Sprintf("**Armor Class** %s\n**Hit Points** %s (%s)\n**Speed** %s",
		rec.Get("armor_class").String(),
		rec.Get("hit_points").String(),
		rec.Get("hit_dice").String(),
		speedText(rec.Get("speed")),
	)

	info.AbilityScores = fmt.Sprintf("**STR** %d **DEX** %d **CON** %d **INT** %d **WIS** %d **CHA** %d",
		rec.Get("strength").Int(),
		rec.Get("dexterity").Int(),
		rec.Get("constitution").Int(),
		rec.Get("intelligence").Int(),
		rec.Get("wisdom").Int(),
		rec.Get("charisma").Int(),
	)

	info.Features = namedEntries(rec.Get("special_abilities"))
	info.Actions = namedEntries(rec.Get("actions"))
	return info
}

// speedText renders a monster speed value, which is a plain string in
// older dataset revisions and a {mode: distance} object in newer ones.
func speedText(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	var parts []string
	v.ForEach(func(mode, dist gjson.Result) bool {
		parts = append(parts, mode.String()+" "+dist.String())
		return true
	})
	return strings.Join(parts, ", ")
}

// namedEntries renders an array of {name, desc} objects as bolded
// paragraphs, one per entry.
func namedEntries(v gjson.Result) string {
	var parts []string
	v.ForEach(func(_, entry gjson.Result) bool {
		parts = append(parts, fmt.Sprintf("**%s.** %s",
			entry.Get("name").String(),
			entry.Get("desc").String(),
		))
		return true
	})
	return strings.Join(parts, "\n")
}

// NewEquipmentInfo extracts the display fields from an equipment record.
func NewEquipmentInfo(rec gjson.Result) EquipmentInfo {
	var lines []string
	cat := rec.Get("equipment_category")
	if cat.IsObject() {
		cat = cat.Get("name")
	}
	if cat.String() != "" {
		lines = append(lines, "**Category:** "+cat.String())
	}
	if cost := rec.Get("cost"); cost.Exists() {
		lines = append(lines, fmt.Sprintf("**Cost:** %d %s",
			cost.Get("quantity").Int(), cost.Get("unit").String()))
	}
	if w := rec.Get("weight"); w.Exists() {
		lines = append(lines, fmt.Sprintf("**Weight:** %s lb.", w.String()))
	}
	if desc := listToParagraphs(rec.Get("desc")); desc != "" {
		lines = append(lines, desc)
	}
	return EquipmentInfo{
		Name:    rec.Get("name").String(),
		Context: strings.Join(lines, "\n"),
	}
}
