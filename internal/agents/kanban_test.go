package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmesh/internal/types"
)

func kanbanProcess(t *testing.T, parsed *types.ParsedInput, user *types.UserContext) *types.KanbanResponse {
	t.Helper()
	resp, err := (&KanbanAgent{}).Process(context.Background(), parsed, user)
	require.NoError(t, err)
	kanban, ok := resp.(*types.KanbanResponse)
	require.True(t, ok)
	return kanban
}

func TestComputeWIPLimitBounds(t *testing.T) {
	cognitiveTypes := []types.CognitiveType{
		types.CognitiveADHD, types.CognitiveASD, types.CognitiveMixed,
		types.CognitiveNeurotypical, types.CognitiveUnknown,
	}
	energies := []types.EnergyState{
		types.EnergyHigh, types.EnergyMedium, types.EnergyLow,
		types.EnergyHyperfocus, types.EnergyScattered,
	}
	for _, c := range cognitiveTypes {
		for _, e := range energies {
			limit := computeWIPLimit(c, e)
			assert.GreaterOrEqual(t, limit, 1, "cognitive=%s energy=%s", c, e)
			assert.LessOrEqual(t, limit, 5, "cognitive=%s energy=%s", c, e)
		}
	}
}

func TestComputeWIPLimitAdjustments(t *testing.T) {
	t.Run("scattered forces one", func(t *testing.T) {
		assert.Equal(t, 1, computeWIPLimit(types.CognitiveNeurotypical, types.EnergyScattered))
	})
	t.Run("hyperfocus forces one", func(t *testing.T) {
		assert.Equal(t, 1, computeWIPLimit(types.CognitiveADHD, types.EnergyHyperfocus))
	})
	t.Run("high energy adds one", func(t *testing.T) {
		assert.Equal(t, 4, computeWIPLimit(types.CognitiveNeurotypical, types.EnergyHigh))
		assert.Equal(t, 3, computeWIPLimit(types.CognitiveADHD, types.EnergyHigh))
	})
	t.Run("asd base is lowest", func(t *testing.T) {
		assert.Equal(t, 1, computeWIPLimit(types.CognitiveASD, types.EnergyMedium))
	})
}

func TestKanbanColumns(t *testing.T) {
	base := []string{colBrainDump, colReadyHighEnergy, colReadyLowEnergy, colInProgress, colBlocked, colDoneToday}

	columnNames := func(resp *types.KanbanResponse) []string {
		names := make([]string, len(resp.Board.Columns))
		for i, c := range resp.Board.Columns {
			names[i] = c.Name
		}
		return names
	}

	t.Run("base six for neurotypical", func(t *testing.T) {
		resp := kanbanProcess(t, &types.ParsedInput{},
			&types.UserContext{EnergyState: types.EnergyMedium, CognitiveType: types.CognitiveNeurotypical})
		assert.Equal(t, base, columnNames(resp))
	})

	t.Run("adhd gets hyperfocus queue", func(t *testing.T) {
		resp := kanbanProcess(t, &types.ParsedInput{},
			&types.UserContext{EnergyState: types.EnergyMedium, CognitiveType: types.CognitiveADHD})
		assert.Equal(t, append(append([]string{}, base...), colHyperfocusQueue), columnNames(resp))
	})

	t.Run("asd gets routine tasks", func(t *testing.T) {
		resp := kanbanProcess(t, &types.ParsedInput{},
			&types.UserContext{EnergyState: types.EnergyMedium, CognitiveType: types.CognitiveASD})
		assert.Equal(t, append(append([]string{}, base...), colRoutineTasks), columnNames(resp))
	})

	t.Run("in progress carries computed limit", func(t *testing.T) {
		resp := kanbanProcess(t, &types.ParsedInput{},
			&types.UserContext{EnergyState: types.EnergyHigh, CognitiveType: types.CognitiveNeurotypical})
		for _, c := range resp.Board.Columns {
			if c.Name == colInProgress {
				assert.Equal(t, 4, c.WIPLimit)
				return
			}
		}
		t.Fatal("In Progress column missing")
	})
}

func TestKanbanCardPlacement(t *testing.T) {
	parsed := &types.ParsedInput{Tasks: units("fix the login bug", "update the readme")}

	t.Run("medium energy lands in brain dump", func(t *testing.T) {
		resp := kanbanProcess(t, parsed, &types.UserContext{EnergyState: types.EnergyMedium})
		require.Len(t, resp.Board.Cards, 2)
		for _, card := range resp.Board.Cards {
			assert.Equal(t, colBrainDump, card.Column)
		}
	})

	t.Run("high energy simple cards go ready", func(t *testing.T) {
		resp := kanbanProcess(t, parsed, &types.UserContext{EnergyState: types.EnergyHigh})
		for _, card := range resp.Board.Cards {
			assert.Equal(t, colReadyHighEnergy, card.Column)
		}
	})

	t.Run("high energy large card falls back to brain dump", func(t *testing.T) {
		long := strings.Repeat("refactor the entire ", 6) + "auth stack"
		require.Greater(t, len(long), largeCardThreshold)
		resp := kanbanProcess(t, &types.ParsedInput{Tasks: units(long)},
			&types.UserContext{EnergyState: types.EnergyHigh})
		require.Len(t, resp.Board.Cards, 1)
		assert.Equal(t, colBrainDump, resp.Board.Cards[0].Column)
		assert.True(t, resp.Board.Cards[0].Complex)
	})

	t.Run("low energy goes ready low", func(t *testing.T) {
		resp := kanbanProcess(t, parsed, &types.UserContext{EnergyState: types.EnergyLow})
		for _, card := range resp.Board.Cards {
			assert.Equal(t, colReadyLowEnergy, card.Column)
		}
	})

	t.Run("hyperfocus first card queued when column exists", func(t *testing.T) {
		resp := kanbanProcess(t, parsed, &types.UserContext{
			EnergyState:   types.EnergyHyperfocus,
			CognitiveType: types.CognitiveADHD,
		})
		require.Len(t, resp.Board.Cards, 2)
		assert.Equal(t, colHyperfocusQueue, resp.Board.Cards[0].Column)
		assert.Equal(t, colBrainDump, resp.Board.Cards[1].Column)
	})

	t.Run("hyperfocus without queue column falls back", func(t *testing.T) {
		resp := kanbanProcess(t, parsed, &types.UserContext{
			EnergyState:   types.EnergyHyperfocus,
			CognitiveType: types.CognitiveNeurotypical,
		})
		assert.Equal(t, colBrainDump, resp.Board.Cards[0].Column)
	})
}

func TestKanbanFlowMetrics(t *testing.T) {
	resp := kanbanProcess(t, &types.ParsedInput{Tasks: units("update the readme")},
		&types.UserContext{EnergyState: types.EnergyMedium})

	assert.Equal(t, "2-4 hours", resp.FlowMetrics.CycleTime)
	assert.Equal(t, "1-2 days", resp.FlowMetrics.LeadTime)
	assert.Equal(t, "3-5 cards/day", resp.FlowMetrics.Throughput)
	// Nothing starts in flight on a fresh board.
	assert.Zero(t, resp.FlowMetrics.WIPCount)
	assert.Empty(t, resp.Recommendations)
}

func TestFlowRecommendations(t *testing.T) {
	t.Run("over limit", func(t *testing.T) {
		recs := flowRecommendations(5, 2, types.EnergyMedium)
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "limit is 2")
	})
	t.Run("scattered with multiple in flight", func(t *testing.T) {
		recs := flowRecommendations(2, 3, types.EnergyScattered)
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "exactly one")
	})
	t.Run("both fire together", func(t *testing.T) {
		assert.Len(t, flowRecommendations(4, 1, types.EnergyScattered), 2)
	})
	t.Run("quiet inside limit", func(t *testing.T) {
		assert.Empty(t, flowRecommendations(2, 2, types.EnergyHigh))
	})
}
