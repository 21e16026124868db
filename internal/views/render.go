package views

//go:generate templ generate

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"grimoire/internal/character/models"
)

var upper = cases.Upper(language.BrazilianPortuguese)

// Render writes the markup of one tab. Unknown tabs render a placeholder
// instead of failing. Output depends only on tab and rec.
func Render(ctx context.Context, w io.Writer, tab string, rec models.Record) error {
	return TabContent(tab, rec).Render(ctx, w)
}

// TabContent returns the component for a tab.
func TabContent(tab string, rec models.Record) templ.Component {
	t, ok := ParseTab(tab)
	if !ok {
		return notFound()
	}
	switch t {
	case TabStart:
		return startTab(rec.Attributes)
	case TabCombat:
		return combatTab(rec.Combat)
	case TabSpells:
		return spellsTab(rec.Spells)
	case TabProficiencies:
		return proficienciesTab(rec.Proficiencies)
	case TabTraits:
		return featuresTab("traits", "✨ Características", "+ Adicionar Característica", rec.Traits)
	case TabFeats:
		return featuresTab("feats", "⭐ Talentos", "+ Adicionar Talento", rec.Feats)
	case TabAllies:
		return alliesTab(rec.Allies)
	case TabInventory:
		return freeTextTab("inventory", "Inventário", rec.Inventory, "Digite seu inventário aqui...", 8)
	case TabNotes:
		return freeTextTab("notes", "Anotações", rec.Notes, "Digite suas anotações aqui...", 8)
	default:
		return freeTextTab("story", "História", rec.Story, "Digite a história do personagem aqui...", 12)
	}
}

// Abbreviation is the three-letter label of an ability ("forca" is "FOR").
func Abbreviation(a models.Ability) string {
	s := string(a)
	if len(s) > 3 {
		s = s[:3]
	}
	return upper.String(s)
}

func signed(v int) string {
	return fmt.Sprintf("%+d", v)
}

// itemPath joins a collection, an index and optional field names into a
// field path such as "allies.0.name".
func itemPath(collection string, index int, field ...string) string {
	return strings.Join(append([]string{collection, strconv.Itoa(index)}, field...), ".")
}

func hitPointsPercent(c models.Combat) int {
	if c.HitPointsMax <= 0 {
		return 0
	}
	return c.HitPointsCurrent * 100 / c.HitPointsMax
}

func hitPointsBar(c models.Combat) templ.Attributes {
	return templ.Attributes{"style": "width: " + strconv.Itoa(hitPointsPercent(c)) + "%"}
}

// spellLevels returns the distinct levels present, ascending.
func spellLevels(list []models.Spell) []int {
	var levels []int
	for _, sp := range list {
		if !slices.Contains(levels, sp.Level) {
			levels = append(levels, sp.Level)
		}
	}
	slices.Sort(levels)
	return levels
}

type proficiencyGroup struct {
	collection string
	label      string
	items      []string
}

func proficiencyGroups(p models.Proficiencies) []proficiencyGroup {
	return []proficiencyGroup{
		{"proficiencies.armor", "🛡️ Armaduras", p.Armor},
		{"proficiencies.weapons", "⚔️ Armas", p.Weapons},
		{"proficiencies.tools", "🔧 Ferramentas", p.Tools},
		{"proficiencies.languages", "🗣️ Idiomas", p.Languages},
	}
}
