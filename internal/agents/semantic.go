package agents

import (
	"context"
	"fmt"
	"strings"

	"mindmesh/internal/embedding"
	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// HistorySearcher is the similarity-search read path the SemanticAgent needs
// from the store.
type HistorySearcher interface {
	SimilaritySearch(ctx context.Context, vector []float32, userID string, limit int) ([]types.SimilarTask, error)
}

// SemanticAgent embeds the raw input, retrieves similar historical tasks,
// and recommends which framework agents are worth running. A missing or
// failing backend degrades to the default recommendation; it never fails
// the pipeline.
type SemanticAgent struct {
	engine   embedding.Engine
	searcher HistorySearcher
	limit    int
}

// searchLimit is the default number of similar tasks retrieved.
const searchLimit = 5

// Framework-indicative keywords counted across the similar-tasks corpus.
var frameworkSignals = []struct {
	framework string
	keywords  []string
}{
	{FrameworkAgile, []string{"sprint", "story"}},
	{FrameworkKanban, []string{"board", "column"}},
	{FrameworkGTD, []string{"inbox", "next action"}},
}

// NewSemanticAgent creates the agent. Both engine and searcher may be nil;
// the agent then always returns default recommendations.
func NewSemanticAgent(engine embedding.Engine, searcher HistorySearcher) *SemanticAgent {
	return &SemanticAgent{engine: engine, searcher: searcher, limit: searchLimit}
}

func (a *SemanticAgent) Name() string { return FrameworkSemantic }

// Process runs the embed -> search -> recommend path for the raw input.
// Backend failure is a degraded condition, not an error: the caller always
// gets a usable SemanticResponse.
func (a *SemanticAgent) Process(ctx context.Context, rawInput string, user *types.UserContext) *types.SemanticResponse {
	timer := logging.StartTimer(logging.CategorySemantic, "Process")
	defer timer.Stop()

	similar, err := a.findSimilar(ctx, rawInput, user.UserID)
	if err != nil {
		logging.Get(logging.CategorySemantic).Warn("Similarity backend degraded: %v", err)
		return &types.SemanticResponse{
			SimilarPastTasks:        []types.SimilarTask{},
			RecommendedFrameworks:   []string{FrameworkGTD, FrameworkKanban},
			RecommendationReasoning: "Similarity search unavailable; starting with the capture-friendly defaults",
		}
	}

	frameworks, reasoning := recommendFrameworks(similar)
	logging.SemanticDebug("Recommended %v from %d similar tasks", frameworks, len(similar))

	return &types.SemanticResponse{
		SimilarPastTasks:        similar,
		RecommendedFrameworks:   frameworks,
		RecommendationReasoning: reasoning,
	}
}

func (a *SemanticAgent) findSimilar(ctx context.Context, rawInput, userID string) ([]types.SimilarTask, error) {
	if a.engine == nil || a.searcher == nil {
		return nil, fmt.Errorf("no embedding backend configured: %w", types.ErrBackendUnavailable)
	}

	vector, err := a.engine.Embed(ctx, rawInput)
	if err != nil {
		return nil, fmt.Errorf("embed failed: %w", types.ErrBackendUnavailable)
	}

	similar, err := a.searcher.SimilaritySearch(ctx, vector, userID, a.limit)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", types.ErrBackendUnavailable)
	}

	return similar, nil
}

// recommendFrameworks counts framework-indicative keywords across the
// similar-tasks corpus. Highest count wins; no corpus at all falls back to
// {GTD, Kanban}, a corpus with no signal to {GTD}.
func recommendFrameworks(similar []types.SimilarTask) ([]string, string) {
	if len(similar) == 0 {
		return []string{FrameworkGTD, FrameworkKanban},
			"No similar past tasks found; recommending the capture-friendly defaults"
	}

	corpus := make([]string, len(similar))
	for i, t := range similar {
		corpus[i] = strings.ToLower(t.Content)
	}

	best := ""
	bestCount := 0
	for _, signal := range frameworkSignals {
		count := 0
		for _, text := range corpus {
			for _, kw := range signal.keywords {
				count += strings.Count(text, kw)
			}
		}
		if count > bestCount {
			best = signal.framework
			bestCount = count
		}
	}

	if bestCount == 0 {
		return []string{FrameworkGTD},
			fmt.Sprintf("Found %d similar tasks but no framework signal; defaulting to GTD", len(similar))
	}

	return []string{best},
		fmt.Sprintf("Your %d similar past tasks lean toward %s (%d keyword hits)", len(similar), best, bestCount)
}
