package textgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellwaste/sellwaste/internal/textgen"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "strips markdown characters",
			input: "# Heading with **bold** and `code` and _emphasis_ > quote",
			want:  "Heading with bold and code and emphasis quote",
		},
		{
			name:  "collapses whitespace",
			input: "too   many\n\nspaces\there",
			want:  "too many spaces here",
		},
		{
			name:  "keeps three sentences",
			input: "One. Two. Three.",
			want:  "One. Two. Three.",
		},
		{
			name:  "truncates to three sentences",
			input: "One. Two! Three? Four. Five.",
			want:  "One. Two! Three?",
		},
		{
			name:  "decimal points are not sentence breaks",
			input: "Volume is 2.5 tons today. Demand is steady.",
			want:  "Volume is 2.5 tons today. Demand is steady.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textgen.Sanitize(tt.input))
		})
	}
}

func TestSanitize_CharacterBudget(t *testing.T) {
	long := strings.Repeat("word ", 300) + "end."
	got := textgen.Sanitize(long)
	assert.LessOrEqual(t, len(got), 600)
	assert.NotEmpty(t, got)
}
