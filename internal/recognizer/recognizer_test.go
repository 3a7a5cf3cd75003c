package recognizer

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seededRecognizer() *PatternRecognizer {
	return NewPatternRecognizer(rand.New(rand.NewSource(42)), testLogger())
}

func TestPatternRecognizer_Organizations(t *testing.T) {
	rec := seededRecognizer()

	result, err := rec.Recognize(context.Background(), "Acme Widget Corp announced a merger with Northwind Trading Co in March.")
	require.NoError(t, err)

	assert.Contains(t, result.Organizations, "Acme Widget Corp")
	assert.Contains(t, result.Organizations, "Northwind Trading Co")
}

func TestPatternRecognizer_Acronyms(t *testing.T) {
	rec := seededRecognizer()

	result, err := rec.Recognize(context.Background(), "The filing was reviewed by the SEC and the FTC last week.")
	require.NoError(t, err)

	assert.Contains(t, result.Organizations, "SEC")
	assert.Contains(t, result.Organizations, "FTC")
}

func TestPatternRecognizer_PeopleExcludesOrgPrefixes(t *testing.T) {
	rec := seededRecognizer()

	result, err := rec.Recognize(context.Background(), "Jane Smith joined Acme Widget Corp as chief counsel.")
	require.NoError(t, err)

	assert.Contains(t, result.People, "Jane Smith")
	// "Acme Widget" is contained in a suffixed org name, not a person.
	assert.NotContains(t, result.People, "Acme Widget")
	assert.NotContains(t, result.People, "Acme Widget Corp")
}

func TestPatternRecognizer_Dedupe(t *testing.T) {
	rec := seededRecognizer()

	result, err := rec.Recognize(context.Background(), "Acme Corp sued Acme Corp contractors. Acme Corp denied it.")
	require.NoError(t, err)

	count := 0
	for _, o := range result.Organizations {
		if o == "Acme Corp" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPatternRecognizer_ConfidenceRange(t *testing.T) {
	rec := seededRecognizer()

	result, err := rec.Recognize(context.Background(), "Acme Corp hired Jane Smith and John Doe from Globex Group.")
	require.NoError(t, err)

	require.NotEmpty(t, result.Confidence)
	for name, c := range result.Confidence {
		assert.GreaterOrEqual(t, c, 0.70, "confidence for %s", name)
		assert.Less(t, c, 1.0, "confidence for %s", name)
	}
}

func TestPatternRecognizer_EmptyCategoriesNotNil(t *testing.T) {
	rec := seededRecognizer()

	result, err := rec.Recognize(context.Background(), "nothing capitalized here")
	require.NoError(t, err)

	assert.NotNil(t, result.Locations)
	assert.NotNil(t, result.Products)
	assert.NotNil(t, result.Events)
	assert.Empty(t, result.Organizations)
	assert.Empty(t, result.People)
}
