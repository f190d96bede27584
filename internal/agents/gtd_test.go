package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmesh/internal/types"
)

func gtdProcess(t *testing.T, parsed *types.ParsedInput, user *types.UserContext) *types.GTDResponse {
	t.Helper()
	resp, err := (&GTDAgent{}).Process(context.Background(), parsed, user)
	require.NoError(t, err)
	gtd, ok := resp.(*types.GTDResponse)
	require.True(t, ok)
	return gtd
}

func TestGTDClarifyRouting(t *testing.T) {
	user := &types.UserContext{EnergyState: types.EnergyMedium}

	t.Run("waiting-for language wins over everything", func(t *testing.T) {
		resp := gtdProcess(t, &types.ParsedInput{
			Ideas: units("waiting for the design review, maybe later"),
		}, user)
		require.Len(t, resp.WaitingFor, 1)
		assert.Empty(t, resp.SomedayMaybe)
	})

	t.Run("ideas and concerns are someday material", func(t *testing.T) {
		resp := gtdProcess(t, &types.ParsedInput{
			Ideas:    units("a dark mode theme"),
			Concerns: units("the deploy pipeline is flaky"),
		}, user)
		assert.Len(t, resp.SomedayMaybe, 2)
		assert.Empty(t, resp.NextActions)
	})

	t.Run("deferral language routes tasks to someday", func(t *testing.T) {
		resp := gtdProcess(t, &types.ParsedInput{
			Tasks: units("eventually migrate the database"),
		}, user)
		require.Len(t, resp.SomedayMaybe, 1)
		assert.Equal(t, "task", resp.SomedayMaybe[0].Source)
	})

	t.Run("projects spawn a first next action", func(t *testing.T) {
		resp := gtdProcess(t, &types.ParsedInput{
			Projects: units("the mobile app redesign"),
		}, user)
		require.Len(t, resp.Projects, 1)
		require.Len(t, resp.NextActions, 1)
		assert.Equal(t, resp.Projects[0].ID, resp.NextActions[0].ProjectID)
		assert.Equal(t, resp.Projects[0].FirstAction, resp.NextActions[0].Content)
	})

	t.Run("long tasks become projects too", func(t *testing.T) {
		long := strings.Repeat("coordinate the rollout across every region ", 3)
		require.Greater(t, len(long), multiStepThreshold)
		resp := gtdProcess(t, &types.ParsedInput{Tasks: units(long)}, user)
		assert.Len(t, resp.Projects, 1)
	})

	t.Run("vague tasks stay in the inbox", func(t *testing.T) {
		resp := gtdProcess(t, &types.ParsedInput{Tasks: units("the thing")}, user)
		require.Len(t, resp.Inbox, 1)
		assert.Empty(t, resp.NextActions)
	})

	t.Run("short but goal-verbed is actionable", func(t *testing.T) {
		resp := gtdProcess(t, &types.ParsedInput{Tasks: units("fix login")}, user)
		assert.Empty(t, resp.Inbox)
		assert.Len(t, resp.NextActions, 1)
	})

	t.Run("clear single-step task becomes a next action", func(t *testing.T) {
		resp := gtdProcess(t, &types.ParsedInput{Tasks: units("call the dentist about the appointment")}, user)
		require.Len(t, resp.NextActions, 1)
		assert.Equal(t, "@phone", resp.NextActions[0].Context)
	})
}

func TestSomedayMaybeAffinity(t *testing.T) {
	t.Run("no history no affinity", func(t *testing.T) {
		assert.Zero(t, somedayMaybeAffinity(nil))
	})

	t.Run("fraction of deferred history", func(t *testing.T) {
		history := []types.SimilarTask{
			{Content: "maybe learn rust someday"},
			{Content: "fix the build"},
			{Content: "eventually clean the garage"},
			{Content: "ship the release"},
		}
		assert.InDelta(t, 0.5, somedayMaybeAffinity(history), 1e-9)
	})

	t.Run("high affinity sends vague items to someday", func(t *testing.T) {
		user := &types.UserContext{
			EnergyState: types.EnergyMedium,
			HistoricalContext: []types.SimilarTask{
				{Content: "maybe learn rust"},
				{Content: "eventually clean up"},
			},
		}
		resp := gtdProcess(t, &types.ParsedInput{Tasks: units("the thing")}, user)
		require.Len(t, resp.SomedayMaybe, 1)
		assert.Empty(t, resp.Inbox)
	})
}

func TestContextFor(t *testing.T) {
	cases := map[string]string{
		"call the landlord":            "@phone",
		"buy new headphones":           "@errands",
		"research caching strategies":  "@anywhere",
		"refactor the session handler": "@computer",
	}
	for content, want := range cases {
		assert.Equal(t, want, contextFor(content), "content=%q", content)
	}
}

func TestBuildContexts(t *testing.T) {
	t.Run("base set", func(t *testing.T) {
		contexts := buildContexts(nil, types.CognitiveNeurotypical)
		assert.Equal(t, []string{"@computer", "@phone", "@errands", "@home"}, contexts)
	})

	t.Run("adhd adds attention contexts", func(t *testing.T) {
		contexts := buildContexts(nil, types.CognitiveADHD)
		assert.Contains(t, contexts, "@hyperfocus")
		assert.Contains(t, contexts, "@dopamine")
	})

	t.Run("used contexts added without duplicates", func(t *testing.T) {
		actions := []types.NextAction{
			{Context: "@anywhere"},
			{Context: "@computer"},
			{Context: "@anywhere"},
		}
		contexts := buildContexts(actions, types.CognitiveNeurotypical)
		count := 0
		for _, c := range contexts {
			if c == "@anywhere" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestWeeklyReviewPrompts(t *testing.T) {
	resp := gtdProcess(t, &types.ParsedInput{
		Tasks: units("fix the login bug", "call the dentist today"),
		Ideas: units("a dark mode theme"),
	}, &types.UserContext{EnergyState: types.EnergyMedium})

	require.Len(t, resp.WeeklyReview, 5)
	assert.Contains(t, resp.WeeklyReview[0], "2 next actions")
	assert.Contains(t, resp.WeeklyReview[3], "1 someday/maybe")
}
