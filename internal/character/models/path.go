package models

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned when a field path or collection does not name
// an editable field of the record.
var ErrInvalidPath = errors.New("invalid field path")

// aliases maps the sheet's original Portuguese keys onto the serialized ones.
var aliases = map[string]string{
	"cabecalho":       "header",
	"atributos":       "attributes",
	"proficiencias":   "proficiencies",
	"caracteristicas": "traits",
	"talentos":        "feats",
	"aliados":         "allies",
	"combate":         "combat",
	"magias":          "spells",
	"historia":        "story",
	"inventario":      "inventory",
	"anotacoes":       "notes",

	"nomePersonagem": "name",
	"classeNivel":    "classLevel",
	"raca":           "race",
	"antecedente":    "background",
	"tendencia":      "alignment",
	"aparencia":      "appearance",

	"armaduras":   "armor",
	"armas":       "weapons",
	"ferramentas": "tools",
	"idiomas":     "languages",

	"titulo":  "title",
	"desc":    "description",
	"nome":    "name",
	"relacao": "relation",

	"ca":           "armorClass",
	"iniciativa":   "initiative",
	"deslocamento": "speed",
	"vidaMaxima":   "hitPointsMax",
	"vidaAtual":    "hitPointsCurrent",
	"ataques":      "attacks",
	"dano":         "damage",
	"tipo":         "type",

	"slotsGastos": "spent",
	"lista":       "list",
	"nivel":       "level",
}

// ValueKey is the template key used for entries of plain string lists.
const ValueKey = "value"

// Set coerces raw and assigns it to the field named by path, enforcing the
// record invariants. The record is left untouched when path is invalid.
func (r *Record) Set(path, raw string) error {
	seg := splitPath(path)
	if err := r.set(seg, raw); err != nil {
		return fmt.Errorf("%w: %q", err, path)
	}
	return nil
}

// Append adds a placeholder entry to the collection, applies the template
// fields with the same coercion as Set, and returns the new index.
func (r *Record) Append(collection string, template map[string]string) (int, error) {
	seg := splitPath(collection)
	idx, err := r.appendPlaceholder(seg)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, collection)
	}

	// sorted so the outcome does not depend on map order
	keys := make([]string, 0, len(template))
	for k := range template {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	base := append(slices.Clone(seg), strconv.Itoa(idx))
	for _, k := range keys {
		target := base
		if k != ValueKey {
			target = append(slices.Clone(base), canonical(k))
		}
		if err := r.set(target, template[k]); err != nil {
			return idx, fmt.Errorf("%w: template field %q", err, k)
		}
	}
	return idx, nil
}

// CanonicalKey maps a Portuguese key from the original sheet onto its
// serialized name. Unknown keys are returned unchanged.
func CanonicalKey(key string) string {
	return canonical(key)
}

func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	seg := strings.Split(path, ".")
	for i, s := range seg {
		seg[i] = canonical(s)
	}
	return seg
}

func canonical(s string) string {
	if alias, ok := aliases[s]; ok {
		return alias
	}
	return s
}

func (r *Record) set(seg []string, raw string) error {
	if len(seg) == 0 {
		return ErrInvalidPath
	}
	head, rest := seg[0], seg[1:]

	switch head {
	case "header":
		if len(rest) != 1 {
			return ErrInvalidPath
		}
		p := r.Header.field(rest[0])
		if p == nil {
			return ErrInvalidPath
		}
		*p = raw
		return nil

	case "attributes":
		if len(rest) != 1 {
			return ErrInvalidPath
		}
		p := r.Attributes.field(Ability(rest[0]))
		if p == nil {
			return ErrInvalidPath
		}
		*p = CoerceAttribute(raw)
		return nil

	case "proficiencies":
		if len(rest) != 2 {
			return ErrInvalidPath
		}
		list := r.Proficiencies.list(rest[0])
		if list == nil {
			return ErrInvalidPath
		}
		i, err := index(rest[1], len(*list))
		if err != nil {
			return err
		}
		(*list)[i] = raw
		return nil

	case "traits", "feats":
		list := &r.Traits
		if head == "feats" {
			list = &r.Feats
		}
		if len(rest) != 2 {
			return ErrInvalidPath
		}
		i, err := index(rest[0], len(*list))
		if err != nil {
			return err
		}
		switch rest[1] {
		case "title":
			(*list)[i].Title = raw
		case "description":
			(*list)[i].Description = raw
		default:
			return ErrInvalidPath
		}
		return nil

	case "allies":
		if len(rest) != 2 {
			return ErrInvalidPath
		}
		i, err := index(rest[0], len(r.Allies))
		if err != nil {
			return err
		}
		switch rest[1] {
		case "name":
			r.Allies[i].Name = raw
		case "relation":
			r.Allies[i].Relation = raw
		default:
			return ErrInvalidPath
		}
		return nil

	case "combat":
		return r.Combat.set(rest, raw)

	case "spells":
		return r.Spells.set(rest, raw)

	case "story", "inventory", "notes":
		if len(rest) != 0 {
			return ErrInvalidPath
		}
		switch head {
		case "story":
			r.Story = raw
		case "inventory":
			r.Inventory = raw
		default:
			r.Notes = raw
		}
		return nil
	}
	return ErrInvalidPath
}

func (r *Record) appendPlaceholder(seg []string) (int, error) {
	switch strings.Join(seg, ".") {
	case "combat.attacks":
		r.Combat.Attacks = append(r.Combat.Attacks, Attack{Name: "Novo Ataque", Bonus: 0, Damage: "1d8", Type: "Melee"})
		return len(r.Combat.Attacks) - 1, nil
	case "spells.list":
		r.Spells.List = append(r.Spells.List, Spell{Level: 1, Name: "Nova Magia", Description: "Digite a descrição da magia aqui..."})
		return len(r.Spells.List) - 1, nil
	case "traits":
		r.Traits = append(r.Traits, Feature{Title: "Nova Característica", Description: "Digite a descrição aqui..."})
		return len(r.Traits) - 1, nil
	case "feats":
		r.Feats = append(r.Feats, Feature{Title: "Novo Talento", Description: "Digite a descrição aqui..."})
		return len(r.Feats) - 1, nil
	case "allies":
		r.Allies = append(r.Allies, Ally{Name: "Novo Aliado", Relation: "Digite a relação aqui..."})
		return len(r.Allies) - 1, nil
	}

	if len(seg) == 2 && seg[0] == "proficiencies" {
		list := r.Proficiencies.list(seg[1])
		if list == nil {
			return 0, ErrInvalidPath
		}
		*list = append(*list, proficiencyPlaceholders[seg[1]])
		return len(*list) - 1, nil
	}
	return 0, ErrInvalidPath
}

var proficiencyPlaceholders = map[string]string{
	"armor":     "Nova armadura",
	"weapons":   "Nova arma",
	"tools":     "Nova ferramenta",
	"languages": "Novo idioma",
}

func (h *Header) field(name string) *string {
	switch name {
	case "name":
		return &h.Name
	case "classLevel":
		return &h.ClassLevel
	case "race":
		return &h.Race
	case "background":
		return &h.Background
	case "alignment":
		return &h.Alignment
	case "appearance":
		return &h.Appearance
	}
	return nil
}

func (p *Proficiencies) list(kind string) *[]string {
	switch kind {
	case "armor":
		return &p.Armor
	case "weapons":
		return &p.Weapons
	case "tools":
		return &p.Tools
	case "languages":
		return &p.Languages
	}
	return nil
}

func (c *Combat) set(seg []string, raw string) error {
	if len(seg) == 0 {
		return ErrInvalidPath
	}
	if seg[0] == "attacks" {
		if len(seg) != 3 {
			return ErrInvalidPath
		}
		i, err := index(seg[1], len(c.Attacks))
		if err != nil {
			return err
		}
		a := &c.Attacks[i]
		switch seg[2] {
		case "name":
			a.Name = raw
		case "bonus":
			a.Bonus = CoerceInt(raw, 0)
		case "damage":
			a.Damage = raw
		case "type":
			a.Type = raw
		default:
			return ErrInvalidPath
		}
		return nil
	}

	if len(seg) != 1 {
		return ErrInvalidPath
	}
	switch seg[0] {
	case "armorClass":
		c.ArmorClass = CoerceNonNegative(raw)
	case "initiative":
		c.Initiative = CoerceInt(raw, 0)
	case "speed":
		c.Speed = CoerceNonNegative(raw)
	case "hitPointsMax":
		v, ok := ParseInt(raw)
		if !ok {
			v = MinHitPointsMax
		}
		c.HitPointsMax = ClampHitPointsMax(v)
		c.HitPointsCurrent = ClampHitPointsCurrent(c.HitPointsCurrent, c.HitPointsMax)
	case "hitPointsCurrent":
		c.HitPointsCurrent = ClampHitPointsCurrent(CoerceInt(raw, 0), c.HitPointsMax)
	default:
		return ErrInvalidPath
	}
	return nil
}

func (s *Spellbook) set(seg []string, raw string) error {
	if len(seg) == 0 {
		return ErrInvalidPath
	}
	switch seg[0] {
	case "slots", "spent":
		if len(seg) != 2 {
			return ErrInvalidPath
		}
		i, err := index(seg[1], SpellLevels)
		if err != nil {
			return err
		}
		if seg[0] == "slots" {
			s.Slots[i] = CoerceNonNegative(raw)
		} else {
			s.Spent[i] = CoerceNonNegative(raw)
		}
		return nil

	case "list":
		if len(seg) != 3 {
			return ErrInvalidPath
		}
		i, err := index(seg[1], len(s.List))
		if err != nil {
			return err
		}
		sp := &s.List[i]
		switch seg[2] {
		case "level":
			sp.Level = ClampSpellLevel(CoerceInt(raw, MinSpellLevel))
		case "name":
			sp.Name = raw
		case "description":
			sp.Description = raw
		default:
			return ErrInvalidPath
		}
		return nil
	}
	return ErrInvalidPath
}

func index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i >= n {
		return 0, ErrInvalidPath
	}
	return i, nil
}
