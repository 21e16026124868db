package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"reflect"
	"slices"
	"strings"

	"grimoire/internal/character/models"
)

var errNotObject = errors.New("saved record is not a json object")

// canonicalDocument renames every object key of a saved record to its
// serialized name, at any depth. When two spellings of one key meet in the
// same object, the one later in sorted order wins.
func canonicalDocument(data []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errNotObject
	}
	root, ok := canonicalValue(doc).(map[string]any)
	if !ok {
		return nil, errNotObject
	}

	groups := make(map[string]json.RawMessage, len(root))
	for name, v := range root {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		groups[name] = raw
	}
	return groups, nil
}

func canonicalValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for _, k := range slices.Sorted(maps.Keys(t)) {
			out[models.CanonicalKey(k)] = canonicalValue(t[k])
		}
		return out
	case []any:
		for i := range t {
			t[i] = canonicalValue(t[i])
		}
		return t
	}
	return v
}

// resetPresentLists empties every list in target whose key is present in
// raw, so decoding replaces a default list instead of overlaying its
// entries index by index. Objects recurse; absent keys keep their defaults.
func resetPresentLists(target reflect.Value, raw json.RawMessage) {
	switch target.Kind() {
	case reflect.Pointer:
		resetPresentLists(target.Elem(), raw)
	case reflect.Slice:
		target.SetZero()
	case reflect.Struct:
		var present map[string]json.RawMessage
		if err := json.Unmarshal(raw, &present); err != nil {
			return
		}
		typ := target.Type()
		for i := range typ.NumField() {
			name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")
			if sub, ok := present[name]; ok {
				resetPresentLists(target.Field(i), sub)
			}
		}
	}
}
