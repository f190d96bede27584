// Package parser turns a raw brain dump into typed semantic units. All
// classification is rule-based: ordered regex pattern families per sentence,
// fixed keyword tables for tone and urgency. Same input, same output.
package parser

import (
	"regexp"
	"strings"

	"mindmesh/internal/logging"
	"mindmesh/internal/types"
)

// unitKind is the classification bucket for a sentence.
type unitKind int

const (
	kindTask unitKind = iota
	kindIdea
	kindConcern
	kindProject
	kindGeneral
)

// sentenceSplit matches terminator runs so "Really?!" splits once.
var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Pattern families are tried in fixed priority order per sentence:
// task -> idea -> concern -> project. The first regex that matches wins,
// so a sentence matching both a task and an idea pattern is a task.
var patternFamilies = []struct {
	kind     unitKind
	patterns []*regexp.Regexp
}{
	{kindTask, compileAll(
		`need to (.+)`,
		`should (.+)`,
		`have to (.+)`,
		`must (.+)`,
		`fix (.+)`,
		`update (.+)`,
		`create (.+)`,
		`implement (.+)`,
		`build (.+)`,
	)},
	{kindIdea, compileAll(
		`what if (.+)`,
		`maybe (.+)`,
		`could (.+)`,
		`thinking about (.+)`,
		`idea:?\s*(.+)`,
	)},
	{kindConcern, compileAll(
		`worried about (.+)`,
		`problem with (.+)`,
		`issue (.+)`,
		`(.+) is broken`,
		`not working (.+)`,
	)},
	{kindProject, compileAll(
		`working on (.+)`,
		`project (.+)`,
		`building (.+)`,
		`developing (.+)`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

// Keyword polarity tables for whole-input emotional tone.
var (
	positiveKeywords = []string{"excited", "great", "good", "love", "awesome", "happy", "progress", "win"}
	negativeKeywords = []string{"worried", "problem", "broken", "stuck", "stress", "frustrated", "anxious", "fail", "hate"}
)

// Urgency ladder, most urgent first. The first matching level wins.
var urgencyLadder = []struct {
	level   types.UrgencyLevel
	pattern *regexp.Regexp
}{
	{types.UrgencyCritical, regexp.MustCompile(`(?i)urgent|asap|immediately|\bnow\b`)},
	{types.UrgencyHigh, regexp.MustCompile(`(?i)soon|today|this week`)},
	{types.UrgencyMedium, regexp.MustCompile(`(?i)next week|eventually`)},
}

// Analyze segments the input into sentences, classifies each into exactly
// one bucket, and aggregates whole-input signals. It never fails: empty
// input yields empty sequences with low/neutral/low aggregates.
func Analyze(input string) *types.ParsedInput {
	timer := logging.StartTimer(logging.CategoryParser, "Analyze")
	defer timer.Stop()

	parsed := &types.ParsedInput{
		Tasks:    []types.ParsedUnit{},
		Ideas:    []types.ParsedUnit{},
		Concerns: []types.ParsedUnit{},
		Projects: []types.ParsedUnit{},
	}

	for _, raw := range sentenceSplit.Split(input, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}

		kind, content := classify(sentence)
		unit := types.ParsedUnit{Content: content}
		switch kind {
		case kindTask:
			parsed.Tasks = append(parsed.Tasks, unit)
		case kindIdea:
			parsed.Ideas = append(parsed.Ideas, unit)
		case kindConcern:
			parsed.Concerns = append(parsed.Concerns, unit)
		case kindProject:
			parsed.Projects = append(parsed.Projects, unit)
		default:
			// General sentences carry no structure and are dropped.
		}
	}

	parsed.Complexity = complexityFor(parsed.TotalUnits())
	parsed.EmotionalTone = toneFor(input)
	parsed.UrgencyLevel = urgencyFor(input)

	logging.ParserDebug("Analyze: %d tasks, %d ideas, %d concerns, %d projects (complexity=%s, tone=%s, urgency=%s)",
		len(parsed.Tasks), len(parsed.Ideas), len(parsed.Concerns), len(parsed.Projects),
		parsed.Complexity, parsed.EmotionalTone, parsed.UrgencyLevel)

	return parsed
}

// classify runs the pattern families in priority order. The captured group
// (or the whole sentence when a pattern has no capture match) becomes the
// unit content, trimmed.
func classify(sentence string) (unitKind, string) {
	for _, family := range patternFamilies {
		for _, re := range family.patterns {
			m := re.FindStringSubmatch(sentence)
			if m == nil {
				continue
			}
			content := sentence
			if len(m) > 1 && strings.TrimSpace(m[1]) != "" {
				content = m[1]
			}
			return family.kind, strings.TrimSpace(content)
		}
	}
	return kindGeneral, sentence
}

func complexityFor(totalUnits int) types.Complexity {
	switch {
	case totalUnits > 5:
		return types.ComplexityHigh
	case totalUnits > 2:
		return types.ComplexityMedium
	default:
		return types.ComplexityLow
	}
}

// toneFor scores positive minus negative keyword occurrences over the whole
// input, case-insensitive substring match.
func toneFor(input string) types.EmotionalTone {
	lower := strings.ToLower(input)

	score := 0
	for _, kw := range positiveKeywords {
		score += strings.Count(lower, kw)
	}
	for _, kw := range negativeKeywords {
		score -= strings.Count(lower, kw)
	}

	switch {
	case score > 0:
		return types.TonePositive
	case score < 0:
		return types.ToneNegative
	default:
		return types.ToneNeutral
	}
}

func urgencyFor(input string) types.UrgencyLevel {
	for _, rung := range urgencyLadder {
		if rung.pattern.MatchString(input) {
			return rung.level
		}
	}
	return types.UrgencyLow
}
