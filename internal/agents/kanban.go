package agents

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// KanbanAgent builds an adaptive board: energy/cognitive-type-aware columns,
// card placement, WIP-limit computation, and flow recommendations.
type KanbanAgent struct{}

// Column names. The In Progress WIP limit is computed per request; the rest
// are fixed.
const (
	colBrainDump       = "Brain Dump"
	colReadyHighEnergy = "Ready High-Energy"
	colReadyLowEnergy  = "Ready Low-Energy"
	colInProgress      = "In Progress"
	colBlocked         = "Blocked"
	colDoneToday       = "Done Today"
	colHyperfocusQueue = "Hyperfocus Queue"
	colRoutineTasks    = "Routine Tasks"
)

// largeCardThreshold marks cards as large/complex by content length.
const largeCardThreshold = 80

func (a *KanbanAgent) Name() string { return FrameworkKanban }

// Process builds the Kanban view for the parsed tasks.
func (a *KanbanAgent) Process(ctx context.Context, parsed *types.ParsedInput, user *types.UserContext) (Response, error) {
	if err := validateContext(user); err != nil {
		return nil, err
	}

	wipLimit := computeWIPLimit(user.CognitiveType, user.EnergyState)
	logging.AgentsDebug("KanbanAgent: %d tasks, wip_limit=%d", len(parsed.Tasks), wipLimit)

	columns := buildColumns(user.CognitiveType, wipLimit)
	hasColumn := make(map[string]bool, len(columns))
	for _, c := range columns {
		hasColumn[c.Name] = true
	}

	cards := make([]types.KanbanCard, 0, len(parsed.Tasks))
	for i, task := range parsed.Tasks {
		complex := len(task.Content) > largeCardThreshold
		column := placeCard(user.EnergyState, complex, i == 0)
		if !hasColumn[column] {
			column = colBrainDump
		}
		cards = append(cards, types.KanbanCard{
			ID:      uuid.NewString(),
			Title:   task.Content,
			Column:  column,
			Complex: complex,
		})
	}

	wipCount := 0
	for _, c := range cards {
		if c.Column == colInProgress {
			wipCount++
		}
	}

	return &types.KanbanResponse{
		Board: types.KanbanBoard{Columns: columns, Cards: cards},
		FlowMetrics: types.FlowMetrics{
			CycleTime:  "2-4 hours",
			LeadTime:   "1-2 days",
			WIPCount:   wipCount,
			Throughput: "3-5 cards/day",
		},
		Recommendations: flowRecommendations(wipCount, wipLimit, user.EnergyState),
	}, nil
}

// computeWIPLimit derives the In Progress cap: a cognitive-type base, energy
// adjustments, clamped to [1,5].
func computeWIPLimit(cognitive types.CognitiveType, energy types.EnergyState) int {
	var base int
	switch cognitive {
	case types.CognitiveADHD:
		base = 2
	case types.CognitiveASD:
		base = 1
	case types.CognitiveMixed:
		base = 2
	case types.CognitiveNeurotypical:
		base = 3
	default:
		base = 2
	}

	switch energy {
	case types.EnergyScattered, types.EnergyHyperfocus:
		base = 1
	case types.EnergyHigh:
		base++
	}

	if base < 1 {
		base = 1
	}
	if base > 5 {
		base = 5
	}
	return base
}

// buildColumns returns the six base columns plus the cognitive-type column.
func buildColumns(cognitive types.CognitiveType, wipLimit int) []types.KanbanColumn {
	columns := []types.KanbanColumn{
		{ID: uuid.NewString(), Name: colBrainDump},
		{ID: uuid.NewString(), Name: colReadyHighEnergy, WIPLimit: 2},
		{ID: uuid.NewString(), Name: colReadyLowEnergy, WIPLimit: 5},
		{ID: uuid.NewString(), Name: colInProgress, WIPLimit: wipLimit},
		{ID: uuid.NewString(), Name: colBlocked},
		{ID: uuid.NewString(), Name: colDoneToday},
	}

	switch cognitive {
	case types.CognitiveADHD:
		columns = append(columns, types.KanbanColumn{ID: uuid.NewString(), Name: colHyperfocusQueue, WIPLimit: 1})
	case types.CognitiveASD:
		columns = append(columns, types.KanbanColumn{ID: uuid.NewString(), Name: colRoutineTasks, WIPLimit: 3})
	}

	return columns
}

// placeCard picks the initial column for a card by energy state.
func placeCard(energy types.EnergyState, complex, first bool) string {
	switch {
	case energy == types.EnergyHigh && !complex:
		return colReadyHighEnergy
	case energy == types.EnergyLow:
		return colReadyLowEnergy
	case energy == types.EnergyHyperfocus && first:
		return colHyperfocusQueue
	default:
		return colBrainDump
	}
}

// flowRecommendations fires when WIP is well past the limit or a scattered
// state has more than one item in flight.
func flowRecommendations(wipCount, wipLimit int, energy types.EnergyState) []string {
	recs := []string{}
	if wipCount > wipLimit+1 {
		recs = append(recs, fmt.Sprintf("You have %d items in progress but your limit is %d. Park the extras in Brain Dump before starting anything new.", wipCount, wipLimit))
	}
	if energy == types.EnergyScattered && wipCount > 1 {
		recs = append(recs, "Scattered energy plus multiple in-progress items is a recipe for half-finished work. Pick exactly one.")
	}
	return recs
}
