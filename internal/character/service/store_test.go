package service

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Durable

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"grimoire/internal/character/metrics"
	"grimoire/internal/character/models"
	"grimoire/internal/character/service/mocks"
	"grimoire/internal/character/store/durable"
	"grimoire/internal/platform/logger"
	"grimoire/pkg/platform/sentinel"
)

type StoreSuite struct {
	suite.Suite
	ctx     context.Context
	durable *durable.InMemory
	store   *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.durable = durable.NewInMemory()
	s.store = New(s.durable, WithLogger(logger.Discard()))
}

func (s *StoreSuite) saved() map[string]json.RawMessage {
	data, err := s.durable.GetItem(s.ctx, DefaultKey)
	s.Require().NoError(err)
	var out map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(data, &out))
	return out
}

func (s *StoreSuite) TestLoad() {
	s.Run("empty storage yields the default record", func() {
		s.store.Load(s.ctx)
		s.Equal(models.Default(), s.store.Snapshot())
	})

	s.Run("stored groups replace defaults, missing groups keep them", func() {
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{"story":"Outra história","attributes":{"forca":14}}`)))
		s.store.Load(s.ctx)

		got := s.store.Snapshot()
		want := models.Default()
		want.Story = "Outra história"
		want.Attributes.Forca = 14
		s.Equal(want, got)
	})

	s.Run("portuguese group names are accepted", func() {
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{"historia":"Antiga","inventario":"Corda"}`)))
		s.store.Load(s.ctx)

		got := s.store.Snapshot()
		s.Equal("Antiga", got.Story)
		s.Equal("Corda", got.Inventory)
	})

	s.Run("nested portuguese keys are accepted", func() {
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{"combate":{"vidaMaxima":40,"vidaAtual":35},"cabecalho":{"nomePersonagem":"Lyra"}}`)))
		s.store.Load(s.ctx)

		got := s.store.Snapshot()
		s.Equal(40, got.Combat.HitPointsMax)
		s.Equal(35, got.Combat.HitPointsCurrent)
		s.Equal("Lyra", got.Header.Name)
		s.Equal("Mago 5", got.Header.ClassLevel)
	})

	s.Run("a sheet saved with the original keys loads unchanged", func() {
		data, err := os.ReadFile("testdata/ficha_kael.json")
		s.Require().NoError(err)
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, data))
		s.store.Load(s.ctx)
		s.Equal(models.Default(), s.store.Snapshot())
	})

	s.Run("stored lists replace the default list whole", func() {
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{"allies":[{"name":"Zed"}],"traits":[{"title":"Only"}],"spells":{"list":[{"name":"Luz"}]}}`)))
		s.store.Load(s.ctx)

		got := s.store.Snapshot()
		s.Equal([]models.Ally{{Name: "Zed"}}, got.Allies)
		s.Equal([]models.Feature{{Title: "Only"}}, got.Traits)
		s.Equal([]models.Spell{{Name: "Luz"}}, got.Spells.List)
		s.Equal(models.Default().Spells.Slots, got.Spells.Slots)
	})

	s.Run("unknown keys are ignored", func() {
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{"pets":["gato"],"notes":"n"}`)))
		s.store.Load(s.ctx)
		s.Equal("n", s.store.Snapshot().Notes)
	})

	s.Run("a group with the wrong shape keeps its default", func() {
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{"traits":"nope","story":7,"notes":"ok"}`)))
		s.store.Load(s.ctx)

		got := s.store.Snapshot()
		def := models.Default()
		s.Equal(def.Traits, got.Traits)
		s.Equal(def.Story, got.Story)
		s.Equal("ok", got.Notes)
	})

	s.Run("corrupt data yields the default record", func() {
		s.Require().NoError(s.store.SetField(s.ctx, "notes", "in memory"))
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{not json`)))
		s.store.Load(s.ctx)
		s.Equal(models.Default(), s.store.Snapshot())
	})

	s.Run("out of range stored values are normalized", func() {
		s.Require().NoError(s.durable.SetItem(s.ctx, DefaultKey, []byte(`{"attributes":{"forca":99},"combat":{"hitPointsMax":10,"hitPointsCurrent":40},"allies":null}`)))
		s.store.Load(s.ctx)

		got := s.store.Snapshot()
		s.Equal(30, got.Attributes.Forca)
		s.Equal(10, got.Combat.HitPointsCurrent)
		s.NotNil(got.Allies)
		s.Empty(got.Allies)
	})
}

func (s *StoreSuite) TestRoundTrip() {
	s.Require().NoError(s.store.SetField(s.ctx, "attributes.forca", "35"))
	s.Require().NoError(s.store.SetField(s.ctx, "combat.vidaMaxima", "20"))
	_, err := s.store.AddEntry(s.ctx, "allies", map[string]string{"name": "Lyra"})
	s.Require().NoError(err)
	s.Require().NoError(s.store.MergeHeader(s.ctx, map[string]string{"name": "Kael", "raca": "Elfo"}))
	before := s.store.Snapshot()

	reloaded := New(s.durable, WithLogger(logger.Discard()))
	reloaded.Load(s.ctx)
	s.Equal(before, reloaded.Snapshot())
}

func (s *StoreSuite) TestSetField() {
	s.Run("every edit writes the whole record", func() {
		s.Require().NoError(s.store.SetField(s.ctx, "notes", "lembrar do grimório"))
		saved := s.saved()
		s.JSONEq(`"lembrar do grimório"`, string(saved["notes"]))
		s.Contains(saved, "spells")
		s.Contains(saved, "header")
	})

	s.Run("hit points clamp in either edit order", func() {
		s.Require().NoError(s.store.SetField(s.ctx, "combat.hitPointsMax", "31"))
		s.Require().NoError(s.store.SetField(s.ctx, "combat.hitPointsCurrent", "31"))
		s.Require().NoError(s.store.SetField(s.ctx, "combat.hitPointsMax", "20"))
		got := s.store.Snapshot()
		s.Equal(20, got.Combat.HitPointsMax)
		s.Equal(20, got.Combat.HitPointsCurrent)

		s.Require().NoError(s.store.SetField(s.ctx, "combat.hitPointsCurrent", "25"))
		s.Equal(20, s.store.Snapshot().Combat.HitPointsCurrent)
	})

	s.Run("invalid path changes nothing and writes nothing", func() {
		store := New(durable.NewInMemory(), WithLogger(logger.Discard()))
		before := store.Snapshot()
		err := store.SetField(s.ctx, "combat.attacks.7.name", "x")
		s.Require().ErrorIs(err, models.ErrInvalidPath)
		s.Equal(before, store.Snapshot())
	})
}

func (s *StoreSuite) TestAddEntry() {
	idx, err := s.store.AddEntry(s.ctx, "proficiencies.languages", map[string]string{models.ValueKey: "Dracônico"})
	s.Require().NoError(err)
	s.Equal(2, idx)
	s.Equal([]string{"Comum", "Élfico", "Dracônico"}, s.store.Snapshot().Proficiencies.Languages)

	_, err = s.store.AddEntry(s.ctx, "notes", nil)
	s.Require().ErrorIs(err, models.ErrInvalidPath)
}

func (s *StoreSuite) TestMergeHeader() {
	s.Run("applies every field", func() {
		s.Require().NoError(s.store.MergeHeader(s.ctx, map[string]string{"classeNivel": "Mago 6", "alignment": "Caótico e Bom"}))
		got := s.store.Snapshot().Header
		s.Equal("Mago 6", got.ClassLevel)
		s.Equal("Caótico e Bom", got.Alignment)
	})

	s.Run("one bad field rejects the whole merge", func() {
		before := s.store.Snapshot()
		err := s.store.MergeHeader(s.ctx, map[string]string{"name": "Outro", "idade": "125"})
		s.Require().ErrorIs(err, models.ErrInvalidPath)
		s.Equal(before, s.store.Snapshot())
	})
}

func (s *StoreSuite) TestSnapshotIsACopy() {
	snap := s.store.Snapshot()
	snap.Traits[0].Title = "mutated"
	snap.Combat.Attacks = nil
	s.Equal("Visão Noturna", s.store.Snapshot().Traits[0].Title)
	s.Len(s.store.Snapshot().Combat.Attacks, 2)
}

func TestStoreWriteFailureKeepsEdit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDurable(ctrl)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	store.EXPECT().
		SetItem(gomock.Any(), "custom", gomock.Any()).
		Return(errors.New("disk full"))

	s := New(store, WithLogger(logger.Discard()), WithMetrics(m), WithKey("custom"))
	require.NoError(t, s.SetField(context.Background(), "attributes.carisma", "18"))

	assert.Equal(t, 18, s.Snapshot().Attributes.Carisma)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistWrites))
}

func TestStoreLoadReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDurable(ctrl)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	store.EXPECT().
		GetItem(gomock.Any(), DefaultKey).
		Return(nil, sentinel.ErrUnavailable)

	s := New(store, WithLogger(logger.Discard()), WithMetrics(m))
	s.Load(context.Background())

	assert.Equal(t, models.Default(), s.Snapshot())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Loads.WithLabelValues(metrics.LoadDefault)))
}

func TestStoreRejectedEditSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDurable(ctrl)
	store.EXPECT().SetItem(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	s := New(store, WithLogger(logger.Discard()))
	err := s.SetField(context.Background(), "unknown", "x")
	require.ErrorIs(t, err, models.ErrInvalidPath)
}

func (s *StoreSuite) TestReset() {
	s.Require().NoError(s.store.SetField(s.ctx, "notes", "anotado"))
	s.Require().NoError(s.store.Reset(s.ctx))

	s.Equal(models.Default(), s.store.Snapshot())
	_, err := s.durable.GetItem(s.ctx, DefaultKey)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.store.Load(s.ctx)
	s.Equal(models.Default(), s.store.Snapshot(), "nothing saved survives a reset")
}

func TestStoreResetFailureKeepsRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockDurable(ctrl)
	store.EXPECT().SetItem(gomock.Any(), DefaultKey, gomock.Any()).Return(nil)
	store.EXPECT().RemoveItem(gomock.Any(), DefaultKey).Return(sentinel.ErrUnavailable)

	s := New(store, WithLogger(logger.Discard()))
	require.NoError(t, s.SetField(context.Background(), "notes", "kept"))

	err := s.Reset(context.Background())
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Equal(t, "kept", s.Snapshot().Notes)
}
