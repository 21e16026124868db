package models

// SpellLevels is the number of spell slot levels tracked, cantrips (0) through 9.
const SpellLevels = 10

// Record is the whole character sheet. It is the only unit of persistence:
// it is always read and written in full.
type Record struct {
	Header        Header        `json:"header"`
	Attributes    Attributes    `json:"attributes"`
	Proficiencies Proficiencies `json:"proficiencies"`
	Traits        []Feature     `json:"traits"`
	Feats         []Feature     `json:"feats"`
	Allies        []Ally        `json:"allies"`
	Combat        Combat        `json:"combat"`
	Spells        Spellbook     `json:"spells"`
	Story         string        `json:"story"`
	Inventory     string        `json:"inventory"`
	Notes         string        `json:"notes"`
}

// Header holds the free-text identity fields shown above the tabs.
type Header struct {
	Name       string `json:"name"`
	ClassLevel string `json:"classLevel"`
	Race       string `json:"race"`
	Background string `json:"background"`
	Alignment  string `json:"alignment"`
	Appearance string `json:"appearance"`
}

// Attributes are the six ability scores plus the proficiency bonus.
// Scores are kept within [MinAttribute, MaxAttribute].
type Attributes struct {
	Forca        int `json:"forca"`
	Destreza     int `json:"destreza"`
	Constituicao int `json:"constituicao"`
	Inteligencia int `json:"inteligencia"`
	Sabedoria    int `json:"sabedoria"`
	Carisma      int `json:"carisma"`
	Proficiencia int `json:"proficiencia"`
}

// Proficiencies are append-only lists; order is insertion order.
type Proficiencies struct {
	Armor     []string `json:"armor"`
	Weapons   []string `json:"weapons"`
	Tools     []string `json:"tools"`
	Languages []string `json:"languages"`
}

// Feature is a trait or feat entry.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Ally is a named contact and how the character knows them.
type Ally struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// Combat holds the combat block. HitPointsCurrent stays within [0, HitPointsMax].
type Combat struct {
	ArmorClass       int      `json:"armorClass"`
	Initiative       int      `json:"initiative"`
	Speed            int      `json:"speed"`
	HitPointsMax     int      `json:"hitPointsMax"`
	HitPointsCurrent int      `json:"hitPointsCurrent"`
	Attacks          []Attack `json:"attacks"`
}

// Attack is one row of the attacks table.
type Attack struct {
	Name   string `json:"name"`
	Bonus  int    `json:"bonus"`
	Damage string `json:"damage"`
	Type   string `json:"type"`
}

// Spellbook tracks slots per level and the known spell list.
// Spent counts are recorded but never checked against Slots.
type Spellbook struct {
	Slots [SpellLevels]int `json:"slots"`
	Spent [SpellLevels]int `json:"spent"`
	List  []Spell          `json:"list"`
}

// Spell is a known spell. Level 0 is a cantrip.
type Spell struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Clone returns a deep copy so callers can read without sharing slices
// with the owning store.
func (r Record) Clone() Record {
	out := r
	out.Proficiencies = Proficiencies{
		Armor:     cloneSlice(r.Proficiencies.Armor),
		Weapons:   cloneSlice(r.Proficiencies.Weapons),
		Tools:     cloneSlice(r.Proficiencies.Tools),
		Languages: cloneSlice(r.Proficiencies.Languages),
	}
	out.Traits = cloneSlice(r.Traits)
	out.Feats = cloneSlice(r.Feats)
	out.Allies = cloneSlice(r.Allies)
	out.Combat.Attacks = cloneSlice(r.Combat.Attacks)
	out.Spells.List = cloneSlice(r.Spells.List)
	return out
}

// Normalize enforces the record invariants in place: attribute and hit point
// ranges, and non-nil lists so the serialized form never carries null.
func (r *Record) Normalize() {
	a := &r.Attributes
	for _, score := range []*int{&a.Forca, &a.Destreza, &a.Constituicao, &a.Inteligencia, &a.Sabedoria, &a.Carisma, &a.Proficiencia} {
		*score = ClampAttribute(*score)
	}

	r.Combat.HitPointsMax = ClampHitPointsMax(r.Combat.HitPointsMax)
	r.Combat.HitPointsCurrent = ClampHitPointsCurrent(r.Combat.HitPointsCurrent, r.Combat.HitPointsMax)

	for i := range r.Spells.List {
		r.Spells.List[i].Level = ClampSpellLevel(r.Spells.List[i].Level)
	}

	p := &r.Proficiencies
	p.Armor = nonNil(p.Armor)
	p.Weapons = nonNil(p.Weapons)
	p.Tools = nonNil(p.Tools)
	p.Languages = nonNil(p.Languages)
	r.Traits = nonNil(r.Traits)
	r.Feats = nonNil(r.Feats)
	r.Allies = nonNil(r.Allies)
	r.Combat.Attacks = nonNil(r.Combat.Attacks)
	r.Spells.List = nonNil(r.Spells.List)
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
