package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmesh/internal/types"
)

// fakeEngine returns a fixed vector or a canned error.
type fakeEngine struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

func (f *fakeEngine) Dimensions() int { return len(f.vector) }
func (f *fakeEngine) Name() string    { return "fake" }

// fakeSearcher returns canned similar tasks.
type fakeSearcher struct {
	tasks []types.SimilarTask
	err   error
}

func (f *fakeSearcher) SimilaritySearch(ctx context.Context, vector []float32, userID string, limit int) ([]types.SimilarTask, error) {
	return f.tasks, f.err
}

func similarTasks(contents ...string) []types.SimilarTask {
	out := make([]types.SimilarTask, len(contents))
	for i, c := range contents {
		out[i] = types.SimilarTask{Content: c, SimilarityScore: 0.9}
	}
	return out
}

func TestSemanticRecommendations(t *testing.T) {
	user := &types.UserContext{UserID: "u1", EnergyState: types.EnergyMedium}
	engine := &fakeEngine{vector: []float32{0.1, 0.2}}

	t.Run("no similar tasks means capture defaults", func(t *testing.T) {
		agent := NewSemanticAgent(engine, &fakeSearcher{})
		resp := agent.Process(context.Background(), "dump text", user)
		assert.Equal(t, []string{FrameworkGTD, FrameworkKanban}, resp.RecommendedFrameworks)
		assert.Empty(t, resp.SimilarPastTasks)
	})

	t.Run("no keyword signal means gtd", func(t *testing.T) {
		agent := NewSemanticAgent(engine, &fakeSearcher{
			tasks: similarTasks("water the plants", "call the dentist"),
		})
		resp := agent.Process(context.Background(), "dump text", user)
		assert.Equal(t, []string{FrameworkGTD}, resp.RecommendedFrameworks)
		assert.Len(t, resp.SimilarPastTasks, 2)
	})

	t.Run("sprint language leans agile", func(t *testing.T) {
		agent := NewSemanticAgent(engine, &fakeSearcher{
			tasks: similarTasks("plan the sprint", "write the story for onboarding"),
		})
		resp := agent.Process(context.Background(), "dump text", user)
		assert.Equal(t, []string{FrameworkAgile}, resp.RecommendedFrameworks)
	})

	t.Run("board language leans kanban", func(t *testing.T) {
		agent := NewSemanticAgent(engine, &fakeSearcher{
			tasks: similarTasks("move the card to the done column", "tidy the board"),
		})
		resp := agent.Process(context.Background(), "dump text", user)
		assert.Equal(t, []string{FrameworkKanban}, resp.RecommendedFrameworks)
	})

	t.Run("highest count wins", func(t *testing.T) {
		agent := NewSemanticAgent(engine, &fakeSearcher{
			tasks: similarTasks("sprint review", "empty the inbox", "process the inbox", "inbox zero again"),
		})
		resp := agent.Process(context.Background(), "dump text", user)
		assert.Equal(t, []string{FrameworkGTD}, resp.RecommendedFrameworks)
	})
}

func TestSemanticDegradation(t *testing.T) {
	user := &types.UserContext{UserID: "u1", EnergyState: types.EnergyMedium}
	defaults := []string{FrameworkGTD, FrameworkKanban}

	t.Run("nil backend", func(t *testing.T) {
		agent := NewSemanticAgent(nil, nil)
		resp := agent.Process(context.Background(), "dump text", user)
		require.NotNil(t, resp)
		assert.Equal(t, defaults, resp.RecommendedFrameworks)
		assert.Empty(t, resp.SimilarPastTasks)
	})

	t.Run("embed failure", func(t *testing.T) {
		agent := NewSemanticAgent(&fakeEngine{err: errors.New("backend down")}, &fakeSearcher{})
		resp := agent.Process(context.Background(), "dump text", user)
		assert.Equal(t, defaults, resp.RecommendedFrameworks)
	})

	t.Run("search failure", func(t *testing.T) {
		agent := NewSemanticAgent(&fakeEngine{vector: []float32{1}},
			&fakeSearcher{err: errors.New("database locked")})
		resp := agent.Process(context.Background(), "dump text", user)
		assert.Equal(t, defaults, resp.RecommendedFrameworks)
	})
}
