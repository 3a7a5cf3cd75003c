package taxonomy

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestClassifier_ClassifyByName(t *testing.T) {
	cls := NewClassifier(testLogger())

	tests := []struct {
		name            string
		orgName         string
		expectedPrimary string
		expectedSubs    []string
	}{
		{
			name:            "bank keyword",
			orgName:         "Acme Bank Corp",
			expectedPrimary: "financial_services",
			expectedSubs:    []string{"banking", "insurance"},
		},
		{
			name:            "software keyword",
			orgName:         "Initech Software Ltd",
			expectedPrimary: "technology",
			expectedSubs:    []string{"software", "hardware"},
		},
		{
			name:            "pharma keyword",
			orgName:         "Globex Pharma Group",
			expectedPrimary: "healthcare",
			expectedSubs:    []string{"pharmaceuticals", "biotech"},
		},
		{
			name:            "keyword inside token",
			orgName:         "Fintech Partners",
			expectedPrimary: "technology", // "tech" is declared before "fintech" matches anything
			expectedSubs:    []string{"software", "hardware"},
		},
		{
			name:            "no keyword defaults",
			orgName:         "Wayne Enterprises",
			expectedPrimary: "technology",
			expectedSubs:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cls.Classify(tt.orgName, "")
			assert.Equal(t, tt.expectedPrimary, result.Primary)
			assert.Equal(t, tt.expectedSubs, result.Subcategories)
			assert.Empty(t, result.Secondary)
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	cls := NewClassifier(testLogger())

	first := cls.Classify("Acme Bank Corp", "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, cls.Classify("Acme Bank Corp", ""))
	}
}

func TestClassifier_ContextOverride(t *testing.T) {
	cls := NewClassifier(testLogger())

	// Three energy keyword occurrences exceed the override threshold and
	// replace the name-based classification with the full subcategory list.
	ctx := "The company operates oil rigs and gas pipelines, selling energy across three states."
	result := cls.Classify("Acme Bank Corp", ctx)
	assert.Equal(t, "energy", result.Primary)
	assert.Equal(t, []string{"oil_gas", "renewables", "utilities", "mining", "nuclear"}, result.Subcategories)
}

func TestClassifier_ContextBelowThresholdKeepsName(t *testing.T) {
	cls := NewClassifier(testLogger())

	// A single occurrence is not enough to override.
	result := cls.Classify("Acme Bank Corp", "They recently opened a solar facility.")
	assert.Equal(t, "financial_services", result.Primary)
}

func TestCrisisIndicators(t *testing.T) {
	base := CrisisIndicators("no_such_industry")
	assert.Len(t, base, 9)
	assert.Contains(t, base, "breach")
	assert.Contains(t, base, "boycott")

	fin := CrisisIndicators("financial_services")
	assert.Subset(t, fin, base)
	assert.Contains(t, fin, "fraud")
	assert.Contains(t, fin, "regulatory_fine")

	tech := CrisisIndicators("technology")
	assert.Subset(t, tech, base)
	assert.Contains(t, tech, "antitrust")
}
