package service

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimoire/internal/character/models"
)

func TestCanonicalDocument(t *testing.T) {
	t.Run("renames keys at every depth", func(t *testing.T) {
		groups, err := canonicalDocument([]byte(`{"magias":{"lista":[{"nivel":1,"nome":"Sono","desc":"zz"}],"slotsGastos":[0,1]}}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"list":[{"level":1,"name":"Sono","description":"zz"}],"spent":[0,1]}`, string(groups["spells"]))
	})

	t.Run("keeps large numbers exact", func(t *testing.T) {
		groups, err := canonicalDocument([]byte(`{"combate":{"ca":12345678901234567}}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"armorClass":12345678901234567}`, string(groups["combat"]))
	})

	for _, raw := range []string{`[]`, `null`, `"x"`, `{} {}`} {
		_, err := canonicalDocument([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestResetPresentLists(t *testing.T) {
	rec := models.Default()
	resetPresentLists(reflect.ValueOf(&rec.Combat), json.RawMessage(`{"attacks":[],"speed":3}`))

	assert.Nil(t, rec.Combat.Attacks)
	assert.Equal(t, 9, rec.Combat.Speed, "scalars are left for the decoder")
	assert.NotEmpty(t, rec.Spells.List, "absent lists keep their defaults")
}
