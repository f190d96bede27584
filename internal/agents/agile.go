package agents

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// AgileAgent turns parsed tasks into user stories with estimated points,
// groups them into epics and a single planned sprint, and predicts velocity.
type AgileAgent struct{}

// Story point scale. Raw estimates snap to the nearest value; ties break
// toward the earlier entry.
var fibonacciPoints = []int{1, 2, 3, 5, 8, 13}

// Keyword groups for story-point estimation.
var (
	integrationKeywords = []string{"database", "api", "integration"}
	greenfieldKeywords  = []string{"new", "create", "build"}
	complexityKeywords  = []string{"complex", "advanced", "system"}
	urgentKeywords      = []string{"urgent", "asap", "immediately"}
	bugKeywords         = []string{"bug", "broken", "error", "crash"}
)

// Sprint capacity in story points by energy state.
func sprintCapacity(energy types.EnergyState) int {
	switch energy {
	case types.EnergyLow:
		return 5
	case types.EnergyScattered:
		return 8
	default:
		return 13
	}
}

func (a *AgileAgent) Name() string { return FrameworkAgile }

// Process builds the Agile view: one story per task, epics when enough
// structure exists, a single greedily-packed sprint, and a velocity estimate.
func (a *AgileAgent) Process(ctx context.Context, parsed *types.ParsedInput, user *types.UserContext) (Response, error) {
	if err := validateContext(user); err != nil {
		return nil, err
	}

	logging.AgentsDebug("AgileAgent: %d tasks, energy=%s", len(parsed.Tasks), user.EnergyState)

	stories := make([]types.UserStory, 0, len(parsed.Tasks))
	for _, task := range parsed.Tasks {
		stories = append(stories, buildStory(task.Content, user.EnergyState))
	}

	epics := buildEpics(stories, parsed.Projects)
	if len(epics) > 0 {
		for i := range stories {
			stories[i].Epic = epics[0].ID
		}
	}

	backlog := prioritizeBacklog(stories)
	sprints := planSprint(backlog, user.EnergyState)
	if len(sprints) > 0 {
		planned := make(map[string]bool, len(sprints[0].StoryIDs))
		for _, id := range sprints[0].StoryIDs {
			planned[id] = true
		}
		for i := range stories {
			if planned[stories[i].ID] {
				stories[i].Sprint = sprints[0].ID
			}
		}
		backlog = prioritizeBacklog(stories)
	}

	return &types.AgileResponse{
		UserStories:        stories,
		Epics:              epics,
		Sprints:            sprints,
		Backlog:            backlog,
		VelocityPrediction: predictVelocity(stories, user.History),
	}, nil
}

// buildStory estimates points and priority for a single task content.
func buildStory(content string, energy types.EnergyState) types.UserStory {
	return types.UserStory{
		ID:          uuid.NewString(),
		Title:       content,
		Description: fmt.Sprintf("As a user, I want to %s", content),
		AcceptanceCriteria: []string{
			fmt.Sprintf("%s is completed", content),
			"Outcome is verified",
		},
		StoryPoints: estimatePoints(content, energy),
		Priority:    storyPriority(content, energy),
		Tags:        storyTags(content),
	}
}

// estimatePoints applies the keyword-group heuristic, energy adjustments,
// and snaps to the story point scale.
func estimatePoints(content string, energy types.EnergyState) int {
	lower := strings.ToLower(content)

	points := 1
	if containsAny(lower, integrationKeywords) {
		points += 2
	}
	if containsAny(lower, greenfieldKeywords) {
		points += 2
	}
	if containsAny(lower, complexityKeywords) {
		points += 3
	}

	// Low energy caps estimates; hyperfocus inflates them.
	if energy == types.EnergyLow && points > 3 {
		points = 3
	}
	if energy == types.EnergyHyperfocus {
		points++
	}

	return snapToScale(points)
}

// snapToScale returns the scale value nearest to raw by absolute difference,
// ties broken toward the earlier value in the scale.
func snapToScale(raw int) int {
	best := fibonacciPoints[0]
	bestDiff := math.Abs(float64(raw - best))
	for _, p := range fibonacciPoints[1:] {
		diff := math.Abs(float64(raw - p))
		if diff < bestDiff {
			best = p
			bestDiff = diff
		}
	}
	return best
}

func storyPriority(content string, energy types.EnergyState) string {
	lower := strings.ToLower(content)

	switch {
	case containsAny(lower, urgentKeywords):
		return "critical"
	case containsAny(lower, bugKeywords):
		return "high"
	case energy == types.EnergyHyperfocus:
		return "high"
	case energy == types.EnergyLow:
		return "low"
	default:
		return "medium"
	}
}

func storyTags(content string) []string {
	lower := strings.ToLower(content)
	tags := []string{}
	for _, kw := range integrationKeywords {
		if strings.Contains(lower, kw) {
			tags = append(tags, kw)
		}
	}
	if containsAny(lower, bugKeywords) {
		tags = append(tags, "bug")
	}
	return tags
}

// buildEpics forms epics only when there is enough structure: at least three
// stories and at least one detected project. All stories are assigned to the
// first epic; known limitation, kept for predictability.
func buildEpics(stories []types.UserStory, projects []types.ParsedUnit) []types.Epic {
	if len(stories) < 3 || len(projects) < 1 {
		return []types.Epic{}
	}

	ids := make([]string, len(stories))
	for i, s := range stories {
		ids[i] = s.ID
	}

	return []types.Epic{{
		ID:       uuid.NewString(),
		Name:     projects[0].Content,
		StoryIDs: ids,
	}}
}

var priorityRank = map[string]int{"critical": 0, "high": 1, "medium": 2, "low": 3}

// prioritizeBacklog returns stories sorted by priority, stable within a
// priority so sentence order survives.
func prioritizeBacklog(stories []types.UserStory) []types.UserStory {
	backlog := make([]types.UserStory, len(stories))
	copy(backlog, stories)
	sort.SliceStable(backlog, func(i, j int) bool {
		return priorityRank[backlog[i].Priority] < priorityRank[backlog[j].Priority]
	})
	return backlog
}

// planSprint greedily packs the prioritized backlog into one sprint bounded
// by the energy-dependent capacity.
func planSprint(backlog []types.UserStory, energy types.EnergyState) []types.Sprint {
	if len(backlog) == 0 {
		return []types.Sprint{}
	}

	capacity := sprintCapacity(energy)
	sprint := types.Sprint{
		ID:       uuid.NewString(),
		Name:     "Sprint 1",
		Capacity: capacity,
	}

	for _, story := range backlog {
		if sprint.PlannedPoints+story.StoryPoints > capacity {
			continue
		}
		sprint.StoryIDs = append(sprint.StoryIDs, story.ID)
		sprint.PlannedPoints += story.StoryPoints
	}

	if len(sprint.StoryIDs) == 0 {
		return []types.Sprint{}
	}
	return []types.Sprint{sprint}
}

// predictVelocity uses the historical average when available, otherwise
// estimates from the current total and a 13-point sprint size.
func predictVelocity(stories []types.UserStory, history *types.VelocityHistory) float64 {
	if history != nil && history.SprintsCompleted > 0 {
		return float64(history.CompletedPoints) / float64(history.SprintsCompleted)
	}

	total := 0
	for _, s := range stories {
		total += s.StoryPoints
	}
	if total == 0 {
		return 0
	}

	sprintsNeeded := int(math.Ceil(float64(total) / 13.0))
	if sprintsNeeded < 1 {
		sprintsNeeded = 1
	}
	return float64(total) / float64(sprintsNeeded)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
