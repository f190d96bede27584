package agents

import (
	"context"
	"strings"

	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// PARAAgent classifies parsed units into Project/Area/Resource/Archive via
// keyword heuristics and derives an overall classification label.
type PARAAgent struct{}

func (a *PARAAgent) Name() string { return FrameworkPARA }

// Process builds the PARA view of the parsed input.
func (a *PARAAgent) Process(ctx context.Context, parsed *types.ParsedInput, user *types.UserContext) (Response, error) {
	if err := validateContext(user); err != nil {
		return nil, err
	}

	items := []types.PARAItem{}

	// Explicit projects are Projects by definition.
	for _, u := range parsed.Projects {
		items = append(items, types.PARAItem{Title: u.Content, Category: types.PARAProject})
	}

	// Tasks lead with a goal verb -> Project; otherwise ongoing upkeep -> Area.
	for _, u := range parsed.Tasks {
		category := types.PARAArea
		if startsWithGoalVerb(u.Content) {
			category = types.PARAProject
		}
		items = append(items, types.PARAItem{Title: u.Content, Category: category})
	}

	for _, u := range parsed.Ideas {
		items = append(items, types.PARAItem{Title: u.Content, Category: types.PARAResource})
	}
	for _, u := range parsed.Concerns {
		items = append(items, types.PARAItem{Title: u.Content, Category: types.PARAArea})
	}

	classification := classifyOverall(items)
	logging.AgentsDebug("PARAAgent: %d items, classification=%s", len(items), classification)

	return &types.PARAResponse{
		Classification: classification,
		Items:          items,
	}, nil
}

func startsWithGoalVerb(content string) bool {
	lower := strings.ToLower(strings.TrimSpace(content))
	for _, verb := range goalVerbs {
		if strings.HasPrefix(lower, verb+" ") || lower == verb {
			return true
		}
	}
	return false
}

// classifyOverall derives the headline label from category counts.
func classifyOverall(items []types.PARAItem) string {
	counts := make(map[string]int, 4)
	for _, item := range items {
		counts[item.Category]++
	}

	projects := counts[types.PARAProject]
	areas := counts[types.PARAArea]
	resources := counts[types.PARAResource]

	switch {
	case projects > areas+resources:
		return "Project-Focused"
	case areas > projects:
		return "Area of Responsibility"
	case resources > 0:
		return "Resource Collection"
	default:
		return "General"
	}
}
