package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayExcerpt(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"short text untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"long text truncated", "hello world", 5, "hello..."},
		{"zero limit untouched", "hello", 0, "hello"},
		{"multibyte safe", "éééé", 2, "éé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayExcerpt(tt.text, tt.limit))
		})
	}
}
