package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// GTDAgent runs the capture -> clarify -> organize -> reflect pipeline and
// generates weekly-review prompts. Items that cannot be clarified stay in
// the inbox rather than being forced into a bucket.
type GTDAgent struct{}

// capturedItem is a unit tagged with its parse source, pre-clarification.
type capturedItem struct {
	content string
	source  string
}

// Keyword tables for the clarify phase.
var (
	deferralKeywords   = []string{"later", "eventually", "maybe", "one day", "someday"}
	waitingForKeywords = []string{"waiting for", "waiting on", "blocked by", "blocked on"}
	goalVerbs          = []string{"build", "create", "implement", "design", "develop", "launch", "release", "fix"}
)

// multiStepThreshold: content this long is treated as a multi-step outcome.
const multiStepThreshold = 100

// somedayAffinityThreshold gates the history-informed deferral routing.
const somedayAffinityThreshold = 0.3

func (a *GTDAgent) Name() string { return FrameworkGTD }

// Process builds the GTD view of the parsed input.
func (a *GTDAgent) Process(ctx context.Context, parsed *types.ParsedInput, user *types.UserContext) (Response, error) {
	if err := validateContext(user); err != nil {
		return nil, err
	}

	// Phase 1: Capture. Every parsed unit enters the pipeline with its
	// source type attached.
	captured := capture(parsed)
	logging.AgentsDebug("GTDAgent: captured %d items", len(captured))

	affinity := somedayMaybeAffinity(user.HistoricalContext)

	// Phases 2+3: Clarify and Organize.
	resp := &types.GTDResponse{
		NextActions:  []types.NextAction{},
		Projects:     []types.GTDProject{},
		WaitingFor:   []types.GTDItem{},
		SomedayMaybe: []types.GTDItem{},
		Inbox:        []types.GTDItem{},
	}
	for _, item := range captured {
		clarify(item, affinity, resp)
	}

	// Phase 4: Reflect.
	resp.Contexts = buildContexts(resp.NextActions, user.CognitiveType)

	// Phase 5: weekly review prompts.
	resp.WeeklyReview = weeklyReviewPrompts(resp)

	return resp, nil
}

func capture(parsed *types.ParsedInput) []capturedItem {
	var captured []capturedItem
	for _, u := range parsed.Tasks {
		captured = append(captured, capturedItem{content: u.Content, source: "task"})
	}
	for _, u := range parsed.Ideas {
		captured = append(captured, capturedItem{content: u.Content, source: "idea"})
	}
	for _, u := range parsed.Concerns {
		captured = append(captured, capturedItem{content: u.Content, source: "concern"})
	}
	for _, u := range parsed.Projects {
		captured = append(captured, capturedItem{content: u.Content, source: "project"})
	}
	return captured
}

// clarify routes a captured item into exactly one bucket.
//
// Order matters: waiting-for keywords trump everything, then
// non-actionability, then the history-informed deferral check, then the
// multi-step/single-step split. Vague single-step items stay in the inbox.
func clarify(item capturedItem, affinity float64, resp *types.GTDResponse) {
	lower := strings.ToLower(item.content)

	if containsAny(lower, waitingForKeywords) {
		resp.WaitingFor = append(resp.WaitingFor, types.GTDItem{Content: item.content, Source: item.source})
		return
	}

	// Non-actionable: ideas and concerns are reference material, and
	// deferral language is a decision already made.
	if item.source == "idea" || item.source == "concern" || containsAny(lower, deferralKeywords) {
		resp.SomedayMaybe = append(resp.SomedayMaybe, types.GTDItem{Content: item.content, Source: item.source})
		return
	}

	// History-informed deferral: a user whose similar past tasks lean on
	// deferral language gets vague items routed to Someday/Maybe instead
	// of a next-action they will not take.
	if affinity > somedayAffinityThreshold && isVague(item.content) {
		resp.SomedayMaybe = append(resp.SomedayMaybe, types.GTDItem{Content: item.content, Source: item.source})
		return
	}

	// Multi-step: spawn a project with a defined first step.
	if item.source == "project" || len(item.content) > multiStepThreshold {
		project := types.GTDProject{
			ID:          uuid.NewString(),
			Name:        item.content,
			FirstAction: fmt.Sprintf("Define the first concrete step for %q", item.content),
		}
		resp.Projects = append(resp.Projects, project)
		resp.NextActions = append(resp.NextActions, types.NextAction{
			ID:        uuid.NewString(),
			Content:   project.FirstAction,
			Context:   contextFor(item.content),
			ProjectID: project.ID,
		})
		return
	}

	// Vague single-step items fail clarification and stay in the inbox.
	if isVague(item.content) {
		resp.Inbox = append(resp.Inbox, types.GTDItem{Content: item.content, Source: item.source})
		return
	}

	resp.NextActions = append(resp.NextActions, types.NextAction{
		ID:      uuid.NewString(),
		Content: item.content,
		Context: contextFor(item.content),
	})
}

// somedayMaybeAffinity is the fraction of historical similar tasks carrying
// deferral language. No history means no affinity.
func somedayMaybeAffinity(history []types.SimilarTask) float64 {
	if len(history) == 0 {
		return 0
	}
	deferred := 0
	for _, t := range history {
		if containsAny(strings.ToLower(t.Content), deferralKeywords) {
			deferred++
		}
	}
	return float64(deferred) / float64(len(history))
}

// isVague: too short to act on and no goal verb to anchor it.
func isVague(content string) bool {
	words := strings.Fields(content)
	if len(words) >= 4 {
		return false
	}
	return !containsAny(strings.ToLower(content), goalVerbs)
}

// contextFor infers a GTD context from content keywords.
func contextFor(content string) string {
	lower := strings.ToLower(content)
	switch {
	case containsAny(lower, []string{"call", "phone"}):
		return "@phone"
	case containsAny(lower, []string{"buy", "pick up", "errand"}):
		return "@errands"
	case containsAny(lower, []string{"read", "research", "think"}):
		return "@anywhere"
	default:
		return "@computer"
	}
}

// buildContexts returns the context list for the reflect phase. ADHD users
// get the attention-economy contexts on top of the base set.
func buildContexts(actions []types.NextAction, cognitive types.CognitiveType) []string {
	contexts := []string{"@computer", "@phone", "@errands", "@home"}
	if cognitive == types.CognitiveADHD {
		contexts = append(contexts, "@hyperfocus", "@dopamine")
	}

	seen := make(map[string]bool, len(contexts))
	for _, c := range contexts {
		seen[c] = true
	}
	for _, a := range actions {
		if !seen[a.Context] {
			contexts = append(contexts, a.Context)
			seen[a.Context] = true
		}
	}
	return contexts
}

// weeklyReviewPrompts is a fixed template list parameterized by bucket counts.
func weeklyReviewPrompts(resp *types.GTDResponse) []string {
	return []string{
		fmt.Sprintf("Review your %d next actions and drop anything that no longer matters", len(resp.NextActions)),
		fmt.Sprintf("Process %d inbox items to empty", len(resp.Inbox)),
		fmt.Sprintf("Check %d projects for a defined next step", len(resp.Projects)),
		fmt.Sprintf("Scan %d someday/maybe entries for anything ready to activate", len(resp.SomedayMaybe)),
		fmt.Sprintf("Follow up on %d waiting-for items", len(resp.WaitingFor)),
	}
}
