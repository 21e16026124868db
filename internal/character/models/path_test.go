package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RecordSetSuite struct {
	suite.Suite
	record Record
}

func TestRecordSetSuite(t *testing.T) {
	suite.Run(t, new(RecordSetSuite))
}

func (s *RecordSetSuite) SetupTest() {
	s.record = Default()
}

func (s *RecordSetSuite) TestAttributes() {
	s.Run("default strength is 8", func() {
		s.Equal(8, s.record.Attributes.Forca)
	})

	s.Run("above range clamps to 30", func() {
		s.Require().NoError(s.record.Set("attributes.forca", "35"))
		s.Equal(30, s.record.Attributes.Forca)
	})

	s.Run("below range clamps to 1", func() {
		s.Require().NoError(s.record.Set("attributes.forca", "-2"))
		s.Equal(1, s.record.Attributes.Forca)
	})

	s.Run("non-numeric becomes 1", func() {
		s.Require().NoError(s.record.Set("attributes.destreza", "abc"))
		s.Equal(1, s.record.Attributes.Destreza)
	})

	s.Run("leading integer is kept", func() {
		s.Require().NoError(s.record.Set("atributos.carisma", " 14.9 "))
		s.Equal(14, s.record.Attributes.Carisma)
	})

	s.Run("unknown ability is rejected", func() {
		err := s.record.Set("attributes.sorte", "10")
		s.Require().ErrorIs(err, ErrInvalidPath)
	})
}

func (s *RecordSetSuite) TestHitPoints() {
	s.Run("lowering max drags current down", func() {
		s.Require().NoError(s.record.Set("combat.vidaMaxima", "20"))
		s.Equal(20, s.record.Combat.HitPointsMax)
		s.Equal(20, s.record.Combat.HitPointsCurrent)
	})

	s.Run("current above max clamps to max", func() {
		s.Require().NoError(s.record.Set("combat.hitPointsCurrent", "99"))
		s.Equal(s.record.Combat.HitPointsMax, s.record.Combat.HitPointsCurrent)
	})

	s.Run("negative current clamps to zero", func() {
		s.Require().NoError(s.record.Set("combat.vidaAtual", "-5"))
		s.Equal(0, s.record.Combat.HitPointsCurrent)
	})

	s.Run("max below one becomes one", func() {
		s.Require().NoError(s.record.Set("combat.hitPointsMax", "0"))
		s.Equal(1, s.record.Combat.HitPointsMax)
		s.LessOrEqual(s.record.Combat.HitPointsCurrent, 1)
	})

	s.Run("raising max leaves current alone", func() {
		s.Require().NoError(s.record.Set("combat.hitPointsCurrent", "1"))
		s.Require().NoError(s.record.Set("combat.hitPointsMax", "40"))
		s.Equal(40, s.record.Combat.HitPointsMax)
		s.Equal(1, s.record.Combat.HitPointsCurrent)
	})
}

func (s *RecordSetSuite) TestIndexedEdits() {
	s.Run("attack bonus is coerced", func() {
		s.Require().NoError(s.record.Set("combat.attacks.0.bonus", "+7"))
		s.Equal(7, s.record.Combat.Attacks[0].Bonus)

		s.Require().NoError(s.record.Set("combat.ataques.0.bonus", "x"))
		s.Equal(0, s.record.Combat.Attacks[0].Bonus)
	})

	s.Run("edits keep order", func() {
		s.Require().NoError(s.record.Set("allies.1.name", "Brennir, o Ruivo"))
		s.Equal("Maerin Ilphukiir", s.record.Allies[0].Name)
		s.Equal("Brennir, o Ruivo", s.record.Allies[1].Name)
	})

	s.Run("proficiency entry is replaced in place", func() {
		s.Require().NoError(s.record.Set("proficiencies.idiomas.1", "Dracônico"))
		s.Equal([]string{"Comum", "Dracônico"}, s.record.Proficiencies.Languages)
	})

	s.Run("spell level clamps into 0..9", func() {
		s.Require().NoError(s.record.Set("spells.list.0.level", "12"))
		s.Equal(9, s.record.Spells.List[0].Level)
	})

	s.Run("spent slots are not checked against available", func() {
		s.Require().NoError(s.record.Set("spells.spent.1", "9"))
		s.Equal(9, s.record.Spells.Spent[1])
		s.Equal(4, s.record.Spells.Slots[1])
	})

	s.Run("out of range index is rejected", func() {
		before := s.record.Clone()
		err := s.record.Set("traits.9.title", "x")
		s.Require().ErrorIs(err, ErrInvalidPath)
		s.Equal(before, s.record)
	})

	s.Run("free text blocks", func() {
		s.Require().NoError(s.record.Set("inventario", "Grimório, 15 po"))
		s.Equal("Grimório, 15 po", s.record.Inventory)
	})
}

func (s *RecordSetSuite) TestAppend() {
	s.Run("attack placeholder", func() {
		idx, err := s.record.Append("combat.attacks", nil)
		s.Require().NoError(err)
		s.Equal(2, idx)
		s.Equal(Attack{Name: "Novo Ataque", Bonus: 0, Damage: "1d8", Type: "Melee"}, s.record.Combat.Attacks[idx])
	})

	s.Run("template fields are coerced", func() {
		idx, err := s.record.Append("magias.lista", map[string]string{"nivel": "42", "name": "Bola de Fogo"})
		s.Require().NoError(err)
		s.Equal(Spell{Level: 9, Name: "Bola de Fogo", Description: "Digite a descrição da magia aqui..."}, s.record.Spells.List[idx])
	})

	s.Run("proficiency value template", func() {
		idx, err := s.record.Append("proficiencies.tools", map[string]string{ValueKey: "Kit de herbalismo"})
		s.Require().NoError(err)
		s.Equal("Kit de herbalismo", s.record.Proficiencies.Tools[idx])
	})

	s.Run("unknown collection", func() {
		_, err := s.record.Append("story", nil)
		s.Require().ErrorIs(err, ErrInvalidPath)
	})
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"  -3 ", -3, true},
		{"+4", 4, true},
		{"7abc", 7, true},
		{"3.9", 3, true},
		{"", 0, false},
		{"-", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseInt(tc.in)
		assert.Equal(t, tc.ok, ok, "ok for %q", tc.in)
		assert.Equal(t, tc.want, got, "value for %q", tc.in)
	}
}

func TestModifier(t *testing.T) {
	assert.Equal(t, -1, Modifier(8))
	assert.Equal(t, -1, Modifier(9))
	assert.Equal(t, 0, Modifier(10))
	assert.Equal(t, 0, Modifier(11))
	assert.Equal(t, 3, Modifier(16))
	assert.Equal(t, -5, Modifier(1))
	assert.Equal(t, 10, Modifier(30))
}

func TestNormalize(t *testing.T) {
	r := Record{}
	r.Attributes.Forca = 50
	r.Combat.HitPointsMax = -1
	r.Combat.HitPointsCurrent = 10
	r.Normalize()

	require.Equal(t, 30, r.Attributes.Forca)
	require.Equal(t, 1, r.Attributes.Destreza)
	require.Equal(t, 1, r.Combat.HitPointsMax)
	require.Equal(t, 1, r.Combat.HitPointsCurrent)
	require.NotNil(t, r.Traits)
	require.NotNil(t, r.Proficiencies.Languages)
}

func TestCloneDoesNotShareLists(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.Traits[0].Title = "changed"
	b.Proficiencies.Languages[0] = "changed"

	assert.Equal(t, "Visão Noturna", a.Traits[0].Title)
	assert.Equal(t, "Comum", a.Proficiencies.Languages[0])
}
