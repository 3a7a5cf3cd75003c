package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInc(t *testing.T) {
	before := EnrichTotal.Value()
	Inc(EnrichTotal)
	Inc(EnrichTotal)
	assert.Equal(t, before+2, EnrichTotal.Value())
}
