package models

// Ability names a score in Attributes by its serialized key.
type Ability string

const (
	AbilityForca        Ability = "forca"
	AbilityDestreza     Ability = "destreza"
	AbilityConstituicao Ability = "constituicao"
	AbilityInteligencia Ability = "inteligencia"
	AbilitySabedoria    Ability = "sabedoria"
	AbilityCarisma      Ability = "carisma"
)

// Abilities lists the six scores in sheet order.
var Abilities = []Ability{
	AbilityForca,
	AbilityDestreza,
	AbilityConstituicao,
	AbilityInteligencia,
	AbilitySabedoria,
	AbilityCarisma,
}

// Skill is a derived check keyed to one ability.
type Skill struct {
	Name    string
	Ability Ability
}

// Skills are shown on the start tab in this order.
var Skills = []Skill{
	{Name: "Acrobacia", Ability: AbilityDestreza},
	{Name: "Arcanismo", Ability: AbilityInteligencia},
	{Name: "Atletismo", Ability: AbilityForca},
	{Name: "Enganação", Ability: AbilityCarisma},
	{Name: "História", Ability: AbilityInteligencia},
	{Name: "Intimidação", Ability: AbilityCarisma},
	{Name: "Intuição", Ability: AbilitySabedoria},
	{Name: "Investigação", Ability: AbilityInteligencia},
	{Name: "Lidar com Animais", Ability: AbilitySabedoria},
	{Name: "Medicina", Ability: AbilitySabedoria},
	{Name: "Natureza", Ability: AbilityInteligencia},
	{Name: "Percepção", Ability: AbilitySabedoria},
	{Name: "Persuasão", Ability: AbilityCarisma},
	{Name: "Prestidigitação", Ability: AbilityDestreza},
	{Name: "Religião", Ability: AbilityInteligencia},
	{Name: "Sobrevivência", Ability: AbilitySabedoria},
}

// Score returns the value of an ability, or 0 for an unknown name.
func (a Attributes) Score(ability Ability) int {
	if p := a.field(ability); p != nil {
		return *p
	}
	return 0
}

func (a *Attributes) field(ability Ability) *int {
	switch ability {
	case AbilityForca:
		return &a.Forca
	case AbilityDestreza:
		return &a.Destreza
	case AbilityConstituicao:
		return &a.Constituicao
	case AbilityInteligencia:
		return &a.Inteligencia
	case AbilitySabedoria:
		return &a.Sabedoria
	case AbilityCarisma:
		return &a.Carisma
	case "proficiencia":
		return &a.Proficiencia
	}
	return nil
}
