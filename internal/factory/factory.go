// Package factory coordinates the full brain-dump pipeline: validation,
// fire-and-forget embedding storage, semantic recommendation, tier gating,
// parallel framework-agent execution with per-slot failure isolation, and
// final orchestration.
package factory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mindmesh/internal/agents"
	"mindmesh/internal/config"
	"mindmesh/internal/embedding"
	"mindmesh/internal/logging"
	"mindmesh/internal/orchestrator"
	"mindmesh/internal/parser"
	"mindmesh/internal/types"
)

// HistoryStore is the persistence surface the factory needs: the write path
// for the fire-and-forget dump storage, and the read path handed to the
// SemanticAgent.
type HistoryStore interface {
	Save(ctx context.Context, userID, content string, vector []float32) error
	SimilaritySearch(ctx context.Context, vector []float32, userID string, limit int) ([]types.SimilarTask, error)
}

// AgentFactory owns the pipeline wiring. Engine and store may be nil; the
// pipeline then runs without history and the semantic path degrades to its
// defaults.
type AgentFactory struct {
	registry     *agents.Registry
	semantic     *agents.SemanticAgent
	orchestrator *orchestrator.ProgressOrchestrator
	engine       embedding.Engine
	store        HistoryStore
	tiers        config.TiersConfig

	writes sync.WaitGroup
}

// New builds a factory around the default agent registry.
func New(engine embedding.Engine, store HistoryStore, tiers config.TiersConfig) *AgentFactory {
	return &AgentFactory{
		registry:     agents.DefaultRegistry(),
		semantic:     agents.NewSemanticAgent(engine, store),
		orchestrator: orchestrator.New(),
		engine:       engine,
		store:        store,
		tiers:        tiers,
	}
}

// ProcessInput runs the whole pipeline for one brain dump.
//
// Validation failures surface synchronously as *types.ValidationError before
// any backend is touched. Everything after validation is
// degrade-don't-fail: backend trouble and individual agent failures shrink
// the response instead of erroring it.
func (f *AgentFactory) ProcessInput(ctx context.Context, input string, user *types.UserContext) (*types.MultiFrameworkResponse, error) {
	start := time.Now()

	if err := validate(input, user); err != nil {
		return nil, err
	}

	logging.Factory("ProcessInput: user=%s tier=%s energy=%s", user.UserID, user.UserTier, user.EnergyState)

	// Fire-and-forget: embed and store the raw dump. Detached from the
	// request context so a fast caller cannot cancel the write; failures
	// are logged and otherwise invisible. The flag is best-effort.
	var embeddingStored atomic.Bool
	f.storeDump(context.WithoutCancel(ctx), input, user.UserID, &embeddingStored)

	// Semantic recommendation runs synchronously; it degrades internally.
	semResp := f.semantic.Process(ctx, input, user)
	enriched := user.WithHistoricalContext(semResp.SimilarPastTasks)

	// One parse, shared by every agent.
	parsed := parser.Analyze(input)

	selected := intersect(semResp.RecommendedFrameworks, frameworksFor(user.UserTier, f.tiers))
	logging.FactoryDebug("Selected agents: %v (recommended %v)", selected, semResp.RecommendedFrameworks)

	results, executed, failed := f.fanOut(ctx, selected, parsed, enriched)
	semResp.Apply(results)

	// Orchestration needs at least one framework view to relate.
	var orch *types.OrchestrationResult
	if len(executed) > 0 {
		orch = f.orchestrator.Analyze(ctx, results, enriched)
	}

	return &types.MultiFrameworkResponse{
		Frameworks:    *results,
		Orchestration: orch,
		Metadata: types.Metadata{
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			InputComplexity:  parsed.Complexity,
			ConfidenceScore:  types.ConfidenceScore(parsed),
			EmbeddingStored:  embeddingStored.Load(),
			AgentsExecuted:   executed,
			AgentsFailed:     failed,
		},
	}, nil
}

// validate rejects malformed requests before any backend work happens.
func validate(input string, user *types.UserContext) error {
	if strings.TrimSpace(input) == "" {
		return &types.ValidationError{Field: "input", Reason: "input must not be empty"}
	}
	if user == nil || !user.EnergyState.Valid() {
		return &types.ValidationError{Field: "energyState", Reason: "energy state must be one of High, Medium, Low, Hyperfocus, Scattered"}
	}
	if !user.UserTier.Valid() {
		return &types.ValidationError{Field: "userTier", Reason: "tier must be one of free, pro, enterprise"}
	}
	return nil
}

// storeDump embeds and persists the raw input in a detached goroutine.
func (f *AgentFactory) storeDump(ctx context.Context, input, userID string, stored *atomic.Bool) {
	if f.engine == nil || f.store == nil {
		return
	}

	f.writes.Add(1)
	go func() {
		defer f.writes.Done()
		vector, err := f.engine.Embed(ctx, input)
		if err != nil {
			logging.Factory("Dump embedding failed for user %s: %v", userID, err)
			return
		}
		if err := f.store.Save(ctx, userID, input, vector); err != nil {
			logging.Factory("Dump storage failed for user %s: %v", userID, err)
			return
		}
		stored.Store(true)
	}()
}

// Close waits for detached dump writes still in flight. Call once on
// shutdown so a fast exit does not drop the last write.
func (f *AgentFactory) Close() {
	f.writes.Wait()
}

// fanOut runs the selected framework agents concurrently, one slot each.
// A failing or panicking agent loses only its own slot; siblings are
// unaffected. Results merge in selection order so output stays stable.
func (f *AgentFactory) fanOut(ctx context.Context, selected []string, parsed *types.ParsedInput, user *types.UserContext) (*types.FrameworkResults, []string, []string) {
	responses := make([]agents.Response, len(selected))
	errs := make([]error, len(selected))

	var g errgroup.Group
	for i, name := range selected {
		agent, ok := f.registry.Get(name)
		if !ok {
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logging.Factory("Agent %s panicked: %v", agent.Name(), r)
					errs[i] = fmt.Errorf("agent %s panicked: %v", agent.Name(), r)
				}
			}()
			resp, err := agent.Process(ctx, parsed, user)
			if err != nil {
				logging.Factory("Agent %s failed: %v", agent.Name(), err)
				errs[i] = err
				return nil
			}
			responses[i] = resp
			return nil
		})
	}
	_ = g.Wait() // closures settle; none returns an error

	results := &types.FrameworkResults{}
	var executed, failed []string
	for i, name := range selected {
		switch {
		case responses[i] != nil:
			responses[i].Apply(results)
			executed = append(executed, name)
		case errs[i] != nil:
			failed = append(failed, name)
		}
	}
	return results, executed, failed
}
