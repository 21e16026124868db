package views

// Tab identifies one screen of the sheet.
type Tab string

const (
	TabStart         Tab = "start"
	TabCombat        Tab = "combat"
	TabSpells        Tab = "spells"
	TabProficiencies Tab = "proficiencies"
	TabTraits        Tab = "traits"
	TabFeats         Tab = "feats"
	TabAllies        Tab = "allies"
	TabInventory     Tab = "inventory"
	TabNotes         Tab = "notes"
	TabStory         Tab = "story"
)

// TabButton is one entry of the tab bar.
type TabButton struct {
	Tab   Tab
	Label string
}

// Tabs lists the tab bar in display order.
var Tabs = []TabButton{
	{TabStart, "🏠 Início"},
	{TabCombat, "⚔️ Combate"},
	{TabSpells, "🪄 Magias"},
	{TabProficiencies, "🛡️ Proficiências"},
	{TabTraits, "✨ Características"},
	{TabFeats, "⭐ Talentos"},
	{TabAllies, "👥 Aliados"},
	{TabInventory, "🎒 Inventário"},
	{TabNotes, "📝 Anotações"},
	{TabStory, "📜 História"},
}

var tabAliases = map[string]Tab{
	"inicio":          TabStart,
	"combate":         TabCombat,
	"magias":          TabSpells,
	"proficiencias":   TabProficiencies,
	"caracteristicas": TabTraits,
	"talentos":        TabFeats,
	"aliados":         TabAllies,
	"inventario":      TabInventory,
	"anotacoes":       TabNotes,
	"historia":        TabStory,
}

// ParseTab resolves a tab name, accepting the original Portuguese names.
func ParseTab(name string) (Tab, bool) {
	if t, ok := tabAliases[name]; ok {
		return t, true
	}
	for _, b := range Tabs {
		if string(b.Tab) == name {
			return b.Tab, true
		}
	}
	return "", false
}
