package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil stays nil", nil, nil},
		{"manifest with spaces", []string{" ./ ", "./index.html", "./script.js "}, []string{"./", "./index.html", "./script.js"}},
		{"repeats keep first position", []string{"./style.css", "./", "./style.css"}, []string{"./style.css", "./"}},
		{"blank entries dropped", []string{"", "  ", "./manifest.json", ""}, []string{"./manifest.json"}},
		{"case is significant", []string{"./Script.js", "./script.js"}, []string{"./Script.js", "./script.js"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DedupeAndTrim(tc.in))
		})
	}
}
