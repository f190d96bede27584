// Package types holds the request-scoped value objects shared across the
// mindmesh pipeline: parsed input units, user context, per-framework response
// objects, and the orchestration aggregates. Everything here is immutable
// after creation and owns no storage; persistence belongs to internal/store.
package types

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// =============================================================================
// ENUMS
// =============================================================================

// EnergyState is the user-declared cognitive/energy mode. It parameterizes
// nearly every heuristic in the framework agents.
type EnergyState string

const (
	EnergyHigh       EnergyState = "High"
	EnergyMedium     EnergyState = "Medium"
	EnergyLow        EnergyState = "Low"
	EnergyHyperfocus EnergyState = "Hyperfocus"
	EnergyScattered  EnergyState = "Scattered"
)

// Valid reports whether the energy state is one of the five known modes.
func (e EnergyState) Valid() bool {
	switch e {
	case EnergyHigh, EnergyMedium, EnergyLow, EnergyHyperfocus, EnergyScattered:
		return true
	}
	return false
}

// ParseEnergyState resolves a caller-supplied string into an EnergyState.
// Matching is case-insensitive; unknown values are an error, never a default.
func ParseEnergyState(s string) (EnergyState, error) {
	for _, e := range []EnergyState{EnergyHigh, EnergyMedium, EnergyLow, EnergyHyperfocus, EnergyScattered} {
		if strings.EqualFold(s, string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown energy state %q", s)
}

// CognitiveType adjusts Kanban WIP limits and GTD context sets.
type CognitiveType string

const (
	CognitiveADHD         CognitiveType = "ADHD"
	CognitiveASD          CognitiveType = "ASD"
	CognitiveMixed        CognitiveType = "MIXED"
	CognitiveNeurotypical CognitiveType = "NEUROTYPICAL"
	CognitiveUnknown      CognitiveType = ""
)

// Tier is the caller's framework-access entitlement.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Valid reports whether the tier is a known entitlement level.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise:
		return true
	}
	return false
}

// Complexity classifies the overall size of a parsed brain dump.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Rank orders complexities so tests can assert monotonicity.
func (c Complexity) Rank() int {
	switch c {
	case ComplexityMedium:
		return 1
	case ComplexityHigh:
		return 2
	}
	return 0
}

// EmotionalTone is the whole-input keyword polarity.
type EmotionalTone string

const (
	TonePositive EmotionalTone = "positive"
	ToneNegative EmotionalTone = "negative"
	ToneNeutral  EmotionalTone = "neutral"
)

// UrgencyLevel is derived from temporal keyword matches over the whole input.
type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// =============================================================================
// PARSED INPUT
// =============================================================================

// ParsedUnit is a single classified fragment of the brain dump.
type ParsedUnit struct {
	Content string `json:"content"`
}

// ParsedInput is the InputParser's output. Unit order matches sentence order
// in the source text. "General" sentences are dropped from all four buckets.
type ParsedInput struct {
	Tasks         []ParsedUnit  `json:"tasks"`
	Ideas         []ParsedUnit  `json:"ideas"`
	Concerns      []ParsedUnit  `json:"concerns"`
	Projects      []ParsedUnit  `json:"projects"`
	Complexity    Complexity    `json:"complexity"`
	EmotionalTone EmotionalTone `json:"emotionalTone"`
	UrgencyLevel  UrgencyLevel  `json:"urgencyLevel"`
}

// TotalUnits returns the count of classified units across all buckets.
func (p *ParsedInput) TotalUnits() int {
	return len(p.Tasks) + len(p.Ideas) + len(p.Concerns) + len(p.Projects)
}

// =============================================================================
// USER CONTEXT
// =============================================================================

// SimilarTask is a historical task surfaced by similarity search.
type SimilarTask struct {
	Content         string    `json:"content"`
	SimilarityScore float64   `json:"similarityScore"`
	CreatedAt       time.Time `json:"createdAt"`
}

// VelocityHistory holds aggregate sprint stats from the history source.
type VelocityHistory struct {
	CompletedPoints  int `json:"completedPoints"`
	SprintsCompleted int `json:"sprintsCompleted"`
}

// ProductivityPatterns carries learned user patterns.
type ProductivityPatterns struct {
	HyperfocusTriggers []string `json:"hyperfocusTriggers,omitempty"`
}

// UserContext is the read-only caller context passed to every agent.
// Agents never mutate it; the factory enriches a copy with historical
// context before fanning out.
type UserContext struct {
	UserID               string                `json:"userId"`
	UserTier             Tier                  `json:"userTier"`
	EnergyState          EnergyState           `json:"energyState"`
	CognitiveType        CognitiveType         `json:"cognitiveType,omitempty"`
	History              *VelocityHistory      `json:"history,omitempty"`
	ProductivityPatterns *ProductivityPatterns `json:"productivityPatterns,omitempty"`
	HistoricalContext    []SimilarTask         `json:"historicalContext,omitempty"`
}

// WithHistoricalContext returns a copy of the context carrying the given
// similar tasks. The receiver is left untouched so sibling requests never
// observe another request's enrichment.
func (u *UserContext) WithHistoricalContext(tasks []SimilarTask) *UserContext {
	clone := *u
	clone.HistoricalContext = tasks
	return &clone
}

// =============================================================================
// FRAMEWORK RESPONSES
// =============================================================================

// UserStory is a single Agile story derived from one parsed task.
type UserStory struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	StoryPoints        int      `json:"storyPoints"`
	Priority           string   `json:"priority"`
	Tags               []string `json:"tags"`
	Epic               string   `json:"epic,omitempty"`
	Sprint             string   `json:"sprint,omitempty"`
}

// Epic groups related stories.
type Epic struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	StoryIDs []string `json:"storyIds"`
}

// Sprint is one planned iteration.
type Sprint struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	StoryIDs      []string `json:"storyIds"`
	PlannedPoints int      `json:"plannedPoints"`
	Capacity      int      `json:"capacity"`
}

// AgileResponse is the AgileAgent's view of the brain dump.
type AgileResponse struct {
	UserStories        []UserStory `json:"userStories"`
	Epics              []Epic      `json:"epics"`
	Sprints            []Sprint    `json:"sprints"`
	Backlog            []UserStory `json:"backlog"`
	VelocityPrediction float64     `json:"velocityPrediction"`
}

// KanbanColumn is a board column. WIPLimit 0 means unlimited.
type KanbanColumn struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WIPLimit int    `json:"wipLimit"`
}

// KanbanCard is a single board card.
type KanbanCard struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Column  string `json:"column"`
	Complex bool   `json:"complex"`
}

// KanbanBoard holds columns and card placements.
type KanbanBoard struct {
	Columns []KanbanColumn `json:"columns"`
	Cards   []KanbanCard   `json:"cards"`
}

// FlowMetrics are heuristic flow aggregates for the board.
type FlowMetrics struct {
	CycleTime  string `json:"cycleTime"`
	LeadTime   string `json:"leadTime"`
	WIPCount   int    `json:"wipCount"`
	Throughput string `json:"throughput"`
}

// KanbanResponse is the KanbanAgent's view of the brain dump.
type KanbanResponse struct {
	Board           KanbanBoard `json:"board"`
	FlowMetrics     FlowMetrics `json:"flowMetrics"`
	Recommendations []string    `json:"recommendations"`
}

// NextAction is a clarified, directly actionable GTD item.
type NextAction struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Context   string `json:"context"`
	ProjectID string `json:"projectId,omitempty"`
}

// GTDProject is a multi-step outcome with a defined first action.
type GTDProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FirstAction string `json:"firstAction"`
}

// GTDItem is a captured-but-not-actionable item (waiting-for, someday,
// or unclarified inbox leftovers).
type GTDItem struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// GTDResponse is the GTDAgent's view of the brain dump.
type GTDResponse struct {
	NextActions  []NextAction `json:"nextActions"`
	Projects     []GTDProject `json:"projects"`
	WaitingFor   []GTDItem    `json:"waitingFor"`
	SomedayMaybe []GTDItem    `json:"somedayMaybe"`
	Contexts     []string     `json:"contexts"`
	WeeklyReview []string     `json:"weeklyReview"`
	Inbox        []GTDItem    `json:"inbox"`
}

// PARA categories.
const (
	PARAProject  = "Project"
	PARAArea     = "Area"
	PARAResource = "Resource"
	PARAArchive  = "Archive"
)

// PARAItem is one classified item.
type PARAItem struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// PARAResponse is the PARAAgent's view of the brain dump.
type PARAResponse struct {
	Classification string     `json:"classification"`
	Items          []PARAItem `json:"items"`
}

// EnergyOptimized is the CustomAgent's energy-state-driven advice.
type EnergyOptimized struct {
	RecommendedTime   string   `json:"recommendedTime"`
	BreakdownStrategy string   `json:"breakdownStrategy"`
	CognitiveLoad     string   `json:"cognitiveLoad"`
	Tips              []string `json:"tips"`
	MomentumTriggers  []string `json:"momentumTriggers"`
}

// CustomResponse is the CustomAgent's view of the brain dump.
type CustomResponse struct {
	EnergyOptimized EnergyOptimized `json:"energyOptimized"`
}

// SemanticResponse carries similarity-search results and the framework
// recommendation derived from them.
type SemanticResponse struct {
	SimilarPastTasks        []SimilarTask `json:"similarPastTasks"`
	RecommendedFrameworks   []string      `json:"recommendedFrameworks"`
	RecommendationReasoning string        `json:"recommendationReasoning"`
}

// FrameworkResults aggregates whichever framework responses were produced.
// Keys absent from the JSON encoding mean the agent did not run.
type FrameworkResults struct {
	Agile    *AgileResponse    `json:"agile,omitempty"`
	Kanban   *KanbanResponse   `json:"kanban,omitempty"`
	GTD      *GTDResponse      `json:"gtd,omitempty"`
	PARA     *PARAResponse     `json:"para,omitempty"`
	Custom   *CustomResponse   `json:"custom,omitempty"`
	Semantic *SemanticResponse `json:"semantic,omitempty"`
}

// =============================================================================
// ORCHESTRATION
// =============================================================================

// RelationType classifies a cross-framework relationship.
type RelationType string

const (
	RelationSharedSkill    RelationType = "shared_skill"
	RelationDependency     RelationType = "dependency"
	RelationSequentialTask RelationType = "sequential_task"
)

// RelationStrength buckets a relation by group size.
type RelationStrength string

const (
	StrengthLow    RelationStrength = "low"
	StrengthMedium RelationStrength = "medium"
	StrengthHigh   RelationStrength = "high"
)

// RelatedTask identifies a task-like item inside a relation, together with
// the framework it came from.
type RelatedTask struct {
	Framework string `json:"framework"`
	Title     string `json:"title"`
}

// CrossProjectRelation links >=2 task-like items that share a skill keyword.
type CrossProjectRelation struct {
	ID                string           `json:"id"`
	Type              RelationType     `json:"type"`
	Strength          RelationStrength `json:"strength"`
	Tasks             []RelatedTask    `json:"tasks"`
	Skill             string           `json:"skill,omitempty"`
	MomentumPotential float64          `json:"momentumPotential"`
	ProgressGain      float64          `json:"progressGain"`
}

// RippleEffect describes how finishing one task advances another.
type RippleEffect struct {
	SourceTask     string `json:"sourceTask"`
	TargetTask     string `json:"targetTask"`
	TargetProject  string `json:"targetProject"`
	TasksUnblocked int    `json:"tasksUnblocked"`
	Description    string `json:"description"`
}

// ProgressMetrics are the aggregate motivation numbers.
type ProgressMetrics struct {
	ProjectsAdvanced   int    `json:"projectsAdvanced"`
	TasksUnblocked     int    `json:"tasksUnblocked"`
	MomentumMultiplier string `json:"momentumMultiplier"`
	EfficiencyGain     string `json:"efficiencyGain"`
}

// MotivationAmplifiers is the user-facing motivational summary.
type MotivationAmplifiers struct {
	AchievementSummary string          `json:"achievementSummary"`
	ProgressMetrics    ProgressMetrics `json:"progressMetrics"`
	CelebrationMessage string          `json:"celebrationMessage"`
}

// OrchestrationResult is the ProgressOrchestrator's aggregate output.
type OrchestrationResult struct {
	CrossProjectImpacts  []CrossProjectRelation `json:"crossProjectImpacts"`
	MomentumScore        int                    `json:"momentumScore"`
	RippleEffects        []RippleEffect         `json:"rippleEffects"`
	Recommendations      []string               `json:"recommendations"`
	MotivationAmplifiers MotivationAmplifiers   `json:"motivationAmplifiers"`
}

// =============================================================================
// PIPELINE RESPONSE
// =============================================================================

// Metadata describes how the pipeline ran.
//
// EmbeddingStored is best-effort: the raw-input embedding write is detached
// from the request, so the flag reflects whatever had happened by the time
// metadata was built, not a durable guarantee.
type Metadata struct {
	ProcessingTimeMs int64      `json:"processingTimeMs"`
	InputComplexity  Complexity `json:"inputComplexity"`
	ConfidenceScore  float64    `json:"confidenceScore"`
	EmbeddingStored  bool       `json:"embeddingStored"`
	AgentsExecuted   []string   `json:"agentsExecuted"`
	AgentsFailed     []string   `json:"agentsFailed,omitempty"`
}

// MultiFrameworkResponse is the full pipeline output returned to callers.
type MultiFrameworkResponse struct {
	Frameworks    FrameworkResults     `json:"frameworks"`
	Orchestration *OrchestrationResult `json:"orchestration"`
	Metadata      Metadata             `json:"metadata"`
}

// ConfidenceScore computes the pipeline confidence for a parsed input:
// clamp(max(0.5, 1 - units/10 - 0.2 if high complexity)), two decimals.
func ConfidenceScore(p *ParsedInput) float64 {
	score := 1.0 - float64(p.TotalUnits())/10.0
	if p.Complexity == ComplexityHigh {
		score -= 0.2
	}
	if score < 0.5 {
		score = 0.5
	}
	return math.Round(score*100) / 100
}
