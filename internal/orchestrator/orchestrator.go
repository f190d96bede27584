// Package orchestrator discovers cross-framework relationships in the
// combined agent outputs and derives momentum and ripple metrics from them.
// Analyze is pure and deterministic given its inputs; missing framework
// responses contribute nothing and never fail the analysis.
package orchestrator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"mindmesh/internal/agents"
	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// skillVocabulary is the fixed keyword set used for shared-skill grouping.
// An item may belong to several groups; membership is case-insensitive
// substring match on the title.
var skillVocabulary = []string{"api", "ui", "database", "testing", "security", "auth", "docs"}

// strengthMultipliers scale the progress-gain estimate by relation strength.
var strengthMultipliers = map[types.RelationStrength]float64{
	types.StrengthLow:    0.5,
	types.StrengthMedium: 1.0,
	types.StrengthHigh:   1.5,
}

// ProgressOrchestrator computes the cross-agent aggregate view.
type ProgressOrchestrator struct{}

func New() *ProgressOrchestrator { return &ProgressOrchestrator{} }

// Analyze builds the orchestration result from whichever framework responses
// are present.
func (o *ProgressOrchestrator) Analyze(ctx context.Context, results *types.FrameworkResults, user *types.UserContext) *types.OrchestrationResult {
	timer := logging.StartTimer(logging.CategoryOrchestrator, "Analyze")
	defer timer.Stop()

	tasks := collectTasks(results)
	relations := findRelations(tasks)
	ripples := simulateRipples(relations)

	logging.OrchestratorDebug("Analyze: %d tasks, %d relations, %d ripples", len(tasks), len(relations), len(ripples))

	return &types.OrchestrationResult{
		CrossProjectImpacts:  relations,
		MomentumScore:        momentumScore(relations),
		RippleEffects:        ripples,
		Recommendations:      buildRecommendations(ripples, user.EnergyState),
		MotivationAmplifiers: buildAmplifiers(ripples),
	}
}

// collectTasks gathers every task-like item across the present responses,
// tagged with the framework it came from. Order is deterministic:
// Agile stories, Kanban cards, GTD next actions, PARA project items.
func collectTasks(results *types.FrameworkResults) []types.RelatedTask {
	if results == nil {
		return nil
	}

	var tasks []types.RelatedTask
	if results.Agile != nil {
		for _, s := range results.Agile.UserStories {
			tasks = append(tasks, types.RelatedTask{Framework: agents.FrameworkAgile, Title: s.Title})
		}
	}
	if results.Kanban != nil {
		for _, c := range results.Kanban.Board.Cards {
			tasks = append(tasks, types.RelatedTask{Framework: agents.FrameworkKanban, Title: c.Title})
		}
	}
	if results.GTD != nil {
		for _, a := range results.GTD.NextActions {
			tasks = append(tasks, types.RelatedTask{Framework: agents.FrameworkGTD, Title: a.Content})
		}
	}
	if results.PARA != nil {
		for _, item := range results.PARA.Items {
			if item.Category == types.PARAProject {
				tasks = append(tasks, types.RelatedTask{Framework: agents.FrameworkPARA, Title: item.Title})
			}
		}
	}
	return tasks
}

// findRelations groups the tasks by skill keyword and emits one
// CrossProjectRelation per group with at least two members. Groups appear
// in vocabulary order so output is stable.
func findRelations(tasks []types.RelatedTask) []types.CrossProjectRelation {
	relations := []types.CrossProjectRelation{}

	for _, skill := range skillVocabulary {
		var group []types.RelatedTask
		for _, task := range tasks {
			if strings.Contains(strings.ToLower(task.Title), skill) {
				group = append(group, task)
			}
		}
		if len(group) < 2 {
			continue
		}

		strength := relationStrength(len(group))
		relations = append(relations, types.CrossProjectRelation{
			ID:                uuid.NewString(),
			Type:              types.RelationSharedSkill,
			Strength:          strength,
			Tasks:             group,
			Skill:             skill,
			MomentumPotential: momentumPotential(len(group)),
			ProgressGain:      progressGain(len(group), strength),
		})
	}

	return relations
}

func relationStrength(groupSize int) types.RelationStrength {
	switch {
	case groupSize > 3:
		return types.StrengthHigh
	case groupSize > 1:
		return types.StrengthMedium
	default:
		return types.StrengthLow
	}
}

func momentumPotential(groupSize int) float64 {
	return math.Min(1.0, float64(groupSize)/5.0)
}

func progressGain(groupSize int, strength types.RelationStrength) float64 {
	return math.Min(float64(groupSize-1)*15.0*strengthMultipliers[strength], 100.0)
}

// simulateRipples emits exactly one ripple, from the first relation carrying
// at least two tasks: finishing the first task partially advances the second.
// A fuller graph traversal is a possible extension; the single-ripple
// behavior is the current contract.
func simulateRipples(relations []types.CrossProjectRelation) []types.RippleEffect {
	ripples := []types.RippleEffect{}
	for _, rel := range relations {
		if len(rel.Tasks) < 2 {
			continue
		}
		source, target := rel.Tasks[0], rel.Tasks[1]
		ripples = append(ripples, types.RippleEffect{
			SourceTask:     source.Title,
			TargetTask:     target.Title,
			TargetProject:  target.Framework,
			TasksUnblocked: len(rel.Tasks) - 1,
			Description: fmt.Sprintf("Completing %q also advances %q (%s shared skill)",
				source.Title, target.Title, rel.Skill),
		})
		break
	}
	return ripples
}

// momentumScore is the mean momentum potential across relations, scaled to
// [0,100]. No relations means zero, never a division by zero.
func momentumScore(relations []types.CrossProjectRelation) int {
	if len(relations) == 0 {
		return 0
	}
	sum := 0.0
	for _, rel := range relations {
		sum += rel.MomentumPotential
	}
	return int(math.Round(sum / float64(len(relations)) * 100.0))
}

// buildRecommendations surfaces the first ripple plus an energy-tailored
// suggestion, or a generic focus message when nothing connects.
func buildRecommendations(ripples []types.RippleEffect, energy types.EnergyState) []string {
	if len(ripples) == 0 {
		return []string{"No cross-project connections found. Focus on your primary tasks one at a time."}
	}

	recs := []string{ripples[0].Description}
	switch energy {
	case types.EnergyHigh, types.EnergyHyperfocus:
		recs = append(recs, "Your energy is up: start with the connected tasks to compound the progress.")
	case types.EnergyLow, types.EnergyScattered:
		recs = append(recs, "Energy is limited: pick the smallest connected task and let the ripple do the rest.")
	default:
		recs = append(recs, "Tackle the connected tasks first to advance multiple fronts at once.")
	}
	return recs
}

// buildAmplifiers derives the motivational summary from the ripple effects.
func buildAmplifiers(ripples []types.RippleEffect) types.MotivationAmplifiers {
	projects := make(map[string]bool)
	unblocked := 0
	for _, r := range ripples {
		projects[r.TargetProject] = true
		unblocked += r.TasksUnblocked
	}

	metrics := types.ProgressMetrics{
		ProjectsAdvanced:   len(projects),
		TasksUnblocked:     unblocked,
		MomentumMultiplier: fmt.Sprintf("%.1fx", 1.0+0.1*float64(len(ripples))),
		EfficiencyGain:     fmt.Sprintf("~%d%%", len(ripples)*5),
	}

	var celebration string
	switch {
	case metrics.ProjectsAdvanced > 1:
		celebration = fmt.Sprintf("Outstanding! One session moved %d projects forward.", metrics.ProjectsAdvanced)
	case metrics.TasksUnblocked > 1:
		celebration = fmt.Sprintf("Great momentum! You unblocked %d related tasks.", metrics.TasksUnblocked)
	default:
		celebration = "Every captured thought is progress. Keep going."
	}

	return types.MotivationAmplifiers{
		AchievementSummary: fmt.Sprintf("Organized your thoughts across frameworks with %d ripple effect(s) detected", len(ripples)),
		ProgressMetrics:    metrics,
		CelebrationMessage: celebration,
	}
}
