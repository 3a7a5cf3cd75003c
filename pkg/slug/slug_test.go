package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "corporate suffix",
			input:    "Gamma Systems Inc",
			expected: "gamma_systems_inc",
		},
		{
			name:     "punctuation collapsed",
			input:    "Acme, Corp.",
			expected: "acme_corp",
		},
		{
			name:     "ampersand run",
			input:    "Smith & Jones LLP",
			expected: "smith_jones_llp",
		},
		{
			name:     "digits kept",
			input:    "3M Company",
			expected: "3m_company",
		},
		{
			name:     "leading and trailing separators dropped",
			input:    "  Acme Corp  ",
			expected: "acme_corp",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Make(tt.input))
		})
	}
}

func TestMake_Stable(t *testing.T) {
	// Same display name always maps to the same id.
	assert.Equal(t, Make("Gamma Systems Inc"), Make("Gamma Systems Inc"))
	assert.Equal(t, "gamma_systems_inc", Make("gamma systems inc"))
}
