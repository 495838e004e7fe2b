package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputString(t *testing.T) {
	tests := []struct {
		name   string
		output interface{}
		want   string
	}{
		{"plain string", "https://cdn.example.com/out.png", "https://cdn.example.com/out.png"},
		{"list picks last", []interface{}{"a.png", "b.png", "c.png"}, "c.png"},
		{"single element list", []interface{}{"only.png"}, "only.png"},
		{"string slice", []string{"x.png", "y.png"}, "y.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputString(tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputStringErrors(t *testing.T) {
	for name, output := range map[string]interface{}{
		"empty string":       "",
		"empty list":         []interface{}{},
		"empty string slice": []string{},
		"nil":                nil,
		"number":             42,
		"non-string element": []interface{}{1, 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := OutputString(output)
			assert.Error(t, err)
		})
	}
}
