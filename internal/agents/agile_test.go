package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmesh/internal/types"
)

func agileProcess(t *testing.T, parsed *types.ParsedInput, user *types.UserContext) *types.AgileResponse {
	t.Helper()
	resp, err := (&AgileAgent{}).Process(context.Background(), parsed, user)
	require.NoError(t, err)
	agile, ok := resp.(*types.AgileResponse)
	require.True(t, ok)
	return agile
}

func units(contents ...string) []types.ParsedUnit {
	out := make([]types.ParsedUnit, len(contents))
	for i, c := range contents {
		out[i] = types.ParsedUnit{Content: c}
	}
	return out
}

func TestAgileInvalidEnergyState(t *testing.T) {
	_, err := (&AgileAgent{}).Process(context.Background(),
		&types.ParsedInput{},
		&types.UserContext{EnergyState: "Bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidEnergyState))
}

func TestSnapToScale(t *testing.T) {
	cases := []struct {
		raw, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{4, 3}, // tie between 3 and 5 breaks earlier
		{6, 5},
		{7, 8},
		{10, 8},
		{11, 13},
		{99, 13},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, snapToScale(tc.raw), "raw=%d", tc.raw)
	}
}

func TestEstimatePoints(t *testing.T) {
	t.Run("base task is one point", func(t *testing.T) {
		assert.Equal(t, 1, estimatePoints("water the plants", types.EnergyMedium))
	})

	t.Run("keyword groups stack", func(t *testing.T) {
		// integration + greenfield + complexity = 1+2+2+3 = 8
		p := estimatePoints("build a complex database system", types.EnergyMedium)
		assert.Equal(t, 8, p)
	})

	t.Run("low energy caps at three", func(t *testing.T) {
		p := estimatePoints("build a complex database system", types.EnergyLow)
		assert.Equal(t, 3, p)
	})

	t.Run("hyperfocus inflates", func(t *testing.T) {
		base := estimatePoints("update the docs", types.EnergyMedium)
		hyper := estimatePoints("update the docs", types.EnergyHyperfocus)
		assert.Greater(t, hyper, base)
	})

	t.Run("always on scale", func(t *testing.T) {
		onScale := map[int]bool{1: true, 2: true, 3: true, 5: true, 8: true, 13: true}
		contents := []string{
			"water the plants",
			"fix the api",
			"create a new integration",
			"build a complex advanced database system integration",
		}
		for _, c := range contents {
			for _, e := range []types.EnergyState{types.EnergyHigh, types.EnergyMedium, types.EnergyLow, types.EnergyHyperfocus, types.EnergyScattered} {
				assert.True(t, onScale[estimatePoints(c, e)], "content=%q energy=%s", c, e)
			}
		}
	})
}

func TestStoryPriority(t *testing.T) {
	t.Run("urgent keyword wins", func(t *testing.T) {
		assert.Equal(t, "critical", storyPriority("fix the deploy ASAP", types.EnergyLow))
	})
	t.Run("bug keyword is high", func(t *testing.T) {
		assert.Equal(t, "high", storyPriority("the login page is broken", types.EnergyMedium))
	})
	t.Run("hyperfocus defaults high", func(t *testing.T) {
		assert.Equal(t, "high", storyPriority("write release notes", types.EnergyHyperfocus))
	})
	t.Run("low energy defaults low", func(t *testing.T) {
		assert.Equal(t, "low", storyPriority("write release notes", types.EnergyLow))
	})
	t.Run("otherwise medium", func(t *testing.T) {
		assert.Equal(t, "medium", storyPriority("write release notes", types.EnergyMedium))
	})
}

func TestAgileEpicsNeedStructure(t *testing.T) {
	user := &types.UserContext{EnergyState: types.EnergyMedium}

	t.Run("too few stories means no epic", func(t *testing.T) {
		resp := agileProcess(t, &types.ParsedInput{
			Tasks:    units("fix the bug", "update docs"),
			Projects: units("the mobile app"),
		}, user)
		assert.Empty(t, resp.Epics)
	})

	t.Run("no project means no epic", func(t *testing.T) {
		resp := agileProcess(t, &types.ParsedInput{
			Tasks: units("fix the bug", "update docs", "write tests"),
		}, user)
		assert.Empty(t, resp.Epics)
	})

	t.Run("epic named after first project holds every story", func(t *testing.T) {
		resp := agileProcess(t, &types.ParsedInput{
			Tasks:    units("fix the bug", "update docs", "write tests"),
			Projects: units("the mobile app", "the website"),
		}, user)
		require.Len(t, resp.Epics, 1)
		epic := resp.Epics[0]
		assert.Equal(t, "the mobile app", epic.Name)
		assert.Len(t, epic.StoryIDs, 3)
		for _, s := range resp.UserStories {
			assert.Equal(t, epic.ID, s.Epic)
		}
	})
}

func TestAgileBacklogOrder(t *testing.T) {
	resp := agileProcess(t, &types.ParsedInput{
		Tasks: units("update the readme", "fix the urgent outage", "login is broken"),
	}, &types.UserContext{EnergyState: types.EnergyMedium})

	require.Len(t, resp.Backlog, 3)
	assert.Equal(t, "critical", resp.Backlog[0].Priority)
	assert.Equal(t, "high", resp.Backlog[1].Priority)
	assert.Equal(t, "medium", resp.Backlog[2].Priority)
}

func TestAgileSprintCapacity(t *testing.T) {
	parsed := &types.ParsedInput{
		Tasks: units(
			"build a new complex system",
			"create a new database integration",
			"fix the api error",
			"update the readme",
			"water the plants",
		),
	}

	for _, tc := range []struct {
		energy   types.EnergyState
		capacity int
	}{
		{types.EnergyLow, 5},
		{types.EnergyScattered, 8},
		{types.EnergyHigh, 13},
	} {
		t.Run(string(tc.energy), func(t *testing.T) {
			resp := agileProcess(t, parsed, &types.UserContext{EnergyState: tc.energy})
			require.Len(t, resp.Sprints, 1)
			sprint := resp.Sprints[0]
			assert.Equal(t, tc.capacity, sprint.Capacity)
			assert.LessOrEqual(t, sprint.PlannedPoints, tc.capacity)
			assert.NotEmpty(t, sprint.StoryIDs)
		})
	}
}

func TestAgileSprintAssignmentMarksStories(t *testing.T) {
	resp := agileProcess(t, &types.ParsedInput{
		Tasks: units("update the readme", "water the plants"),
	}, &types.UserContext{EnergyState: types.EnergyMedium})

	require.Len(t, resp.Sprints, 1)
	planned := make(map[string]bool)
	for _, id := range resp.Sprints[0].StoryIDs {
		planned[id] = true
	}
	for _, s := range resp.UserStories {
		if planned[s.ID] {
			assert.Equal(t, resp.Sprints[0].ID, s.Sprint)
		} else {
			assert.Empty(t, s.Sprint)
		}
	}
}

func TestPredictVelocity(t *testing.T) {
	t.Run("history average wins", func(t *testing.T) {
		resp := agileProcess(t, &types.ParsedInput{
			Tasks: units("update the readme"),
		}, &types.UserContext{
			EnergyState: types.EnergyMedium,
			History:     &types.VelocityHistory{CompletedPoints: 40, SprintsCompleted: 4},
		})
		assert.InDelta(t, 10.0, resp.VelocityPrediction, 1e-9)
	})

	t.Run("no stories means zero", func(t *testing.T) {
		resp := agileProcess(t, &types.ParsedInput{}, &types.UserContext{EnergyState: types.EnergyMedium})
		assert.Zero(t, resp.VelocityPrediction)
	})

	t.Run("estimate from current total", func(t *testing.T) {
		stories := []types.UserStory{{StoryPoints: 8}, {StoryPoints: 8}, {StoryPoints: 5}}
		// total 21 -> 2 sprints -> 10.5
		assert.InDelta(t, 10.5, predictVelocity(stories, nil), 1e-9)
	})
}
