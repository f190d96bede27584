package agents

import (
	"context"

	"mindmesh/internal/types"
)

// CustomAgent produces energy-state-driven strategy advice from fixed lookup
// tables: time window, breakdown strategy, cognitive load, and motivation.
type CustomAgent struct{}

// energyProfile is the advice bundle for one energy state.
type energyProfile struct {
	recommendedTime   string
	breakdownStrategy string
	cognitiveLoad     string
	tips              []string
	momentumTriggers  []string
}

var energyProfiles = map[types.EnergyState]energyProfile{
	types.EnergyHigh: {
		recommendedTime:   "90-minute deep work blocks during your peak hours",
		breakdownStrategy: "focused-blocks",
		cognitiveLoad:     "high",
		tips: []string{
			"Front-load the hardest task while the energy lasts",
			"Batch similar work to avoid context switching",
		},
		momentumTriggers: []string{
			"Finish one visible deliverable before noon",
			"Cross off the first task within 30 minutes",
		},
	},
	types.EnergyMedium: {
		recommendedTime:   "45-60 minute focused sessions with short breaks",
		breakdownStrategy: "parallel-processing",
		cognitiveLoad:     "moderate",
		tips: []string{
			"Alternate demanding and routine tasks",
			"Use a timer to keep sessions honest",
		},
		momentumTriggers: []string{
			"Start with a task you can finish in one session",
			"Queue the next task before taking a break",
		},
	},
	types.EnergyLow: {
		recommendedTime:   "15-20 minute gentle sessions, no pressure",
		breakdownStrategy: "gentle-steps",
		cognitiveLoad:     "minimal",
		tips: []string{
			"Pick the smallest possible next step",
			"Administrative and routine tasks count as progress",
		},
		momentumTriggers: []string{
			"Complete one tiny task to prove the day is not lost",
			"Prepare tomorrow's first task tonight",
		},
	},
	types.EnergyHyperfocus: {
		recommendedTime:   "Ride the wave: one 2-3 hour uninterrupted block",
		breakdownStrategy: "focused-blocks",
		cognitiveLoad:     "high",
		tips: []string{
			"Silence notifications and defend the block",
			"Set an exit alarm so the session has an end",
		},
		momentumTriggers: []string{
			"Channel the focus into the single highest-value task",
			"Capture side-ideas in one line and return to them later",
		},
	},
	types.EnergyScattered: {
		recommendedTime:   "5-10 minute micro-sessions between distractions",
		breakdownStrategy: "micro-tasks",
		cognitiveLoad:     "minimal",
		tips: []string{
			"Break everything into two-minute actions",
			"Physical movement between micro-tasks helps reset",
		},
		momentumTriggers: []string{
			"Capture everything first; deciding comes later",
			"Any completed micro-task counts as a win",
		},
	},
}

func (a *CustomAgent) Name() string { return FrameworkCustom }

// Process returns the advice bundle for the user's energy state, augmented
// with their own hyperfocus triggers when known.
func (a *CustomAgent) Process(ctx context.Context, parsed *types.ParsedInput, user *types.UserContext) (Response, error) {
	if err := validateContext(user); err != nil {
		return nil, err
	}

	profile := energyProfiles[user.EnergyState]

	triggers := make([]string, len(profile.momentumTriggers))
	copy(triggers, profile.momentumTriggers)
	if user.ProductivityPatterns != nil {
		triggers = append(triggers, user.ProductivityPatterns.HyperfocusTriggers...)
	}

	return &types.CustomResponse{
		EnergyOptimized: types.EnergyOptimized{
			RecommendedTime:   profile.recommendedTime,
			BreakdownStrategy: profile.breakdownStrategy,
			CognitiveLoad:     profile.cognitiveLoad,
			Tips:              profile.tips,
			MomentumTriggers:  triggers,
		},
	}, nil
}
