package models

import "strings"

const (
	MinAttribute = 1
	MaxAttribute = 30

	MinHitPointsMax = 1

	MinSpellLevel = 0
	MaxSpellLevel = SpellLevels - 1
)

// ParseInt reads a leading integer from a form value the way browsers coerce
// number inputs: surrounding whitespace is ignored, an optional sign is
// accepted, and parsing stops at the first non-digit ("12.7" and "12abc" are
// 12). ok is false when no digit was read.
func ParseInt(raw string) (n int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	digits := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		// saturate instead of overflowing; callers clamp anyway
		if n < 1<<31 {
			n = n*10 + int(c-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ClampAttribute keeps an ability score within [MinAttribute, MaxAttribute].
func ClampAttribute(v int) int {
	return clamp(v, MinAttribute, MaxAttribute)
}

// CoerceAttribute turns a raw form value into an accepted ability score.
// Non-numeric input becomes MinAttribute.
func CoerceAttribute(raw string) int {
	v, ok := ParseInt(raw)
	if !ok {
		return MinAttribute
	}
	return ClampAttribute(v)
}

// ClampHitPointsMax keeps maximum hit points at or above MinHitPointsMax.
func ClampHitPointsMax(v int) int {
	if v < MinHitPointsMax {
		return MinHitPointsMax
	}
	return v
}

// ClampHitPointsCurrent keeps current hit points within [0, max].
func ClampHitPointsCurrent(v, max int) int {
	return clamp(v, 0, max)
}

// ClampSpellLevel keeps a spell level within [MinSpellLevel, MaxSpellLevel].
func ClampSpellLevel(v int) int {
	return clamp(v, MinSpellLevel, MaxSpellLevel)
}

// CoerceInt parses raw and falls back to def for non-numeric input.
func CoerceInt(raw string, def int) int {
	v, ok := ParseInt(raw)
	if !ok {
		return def
	}
	return v
}

// CoerceNonNegative parses raw and keeps the result at or above zero.
func CoerceNonNegative(raw string) int {
	v := CoerceInt(raw, 0)
	if v < 0 {
		return 0
	}
	return v
}

// Modifier is the ability modifier for a score, rounded toward negative infinity.
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
