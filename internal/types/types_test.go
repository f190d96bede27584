package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnergyState(t *testing.T) {
	for _, raw := range []string{"High", "high", "HYPERFOCUS", "scattered"} {
		e, err := ParseEnergyState(raw)
		require.NoError(t, err, raw)
		assert.True(t, e.Valid())
	}

	_, err := ParseEnergyState("turbo")
	assert.Error(t, err)
}

func TestWithHistoricalContextDoesNotMutateReceiver(t *testing.T) {
	base := &UserContext{UserID: "u1", EnergyState: EnergyMedium}
	enriched := base.WithHistoricalContext([]SimilarTask{{Content: "old dump"}})

	assert.Nil(t, base.HistoricalContext)
	require.Len(t, enriched.HistoricalContext, 1)
	assert.Equal(t, "u1", enriched.UserID)
}

func TestConfidenceScore(t *testing.T) {
	score := func(units int, c Complexity) float64 {
		p := &ParsedInput{Complexity: c}
		for i := 0; i < units; i++ {
			p.Tasks = append(p.Tasks, ParsedUnit{Content: "t"})
		}
		return ConfidenceScore(p)
	}

	assert.InDelta(t, 1.0, score(0, ComplexityLow), 1e-9)
	assert.InDelta(t, 0.8, score(2, ComplexityLow), 1e-9)
	assert.InDelta(t, 0.5, score(8, ComplexityHigh), 1e-9)
	assert.InDelta(t, 0.5, score(20, ComplexityLow), 1e-9, "floor at 0.5")
}
