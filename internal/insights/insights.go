// Package insights analyzes a snapshot of memories for stale rules,
// conflicting directives, near-duplicates and weekly change trends, and
// proposes archive, merge and relabel actions.
//
// The analysis is a pure function of its inputs: it performs no I/O and never
// reads the clock. Callers pass the reference time in Options.Now.
package insights

import (
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/memory-insights/internal/model"
)

// Defaults for Options.
const (
	DefaultStaleRuleDays    = 45
	DefaultWeeklyWindowDays = 7
)

const reportItemCap = 6

// Options configures a single analysis.
type Options struct {
	// Now is the reference time. A zero Now is the Unix epoch.
	Now              time.Time
	StaleRuleDays    int
	WeeklyWindowDays int
}

func (o Options) withDefaults() Options {
	if o.StaleRuleDays <= 0 {
		o.StaleRuleDays = DefaultStaleRuleDays
	}
	if o.WeeklyWindowDays <= 0 {
		o.WeeklyWindowDays = DefaultWeeklyWindowDays
	}
	return o
}

func (o Options) nowMs() int64 {
	if o.Now.IsZero() {
		return 0
	}
	return o.Now.UnixMilli()
}

// StaleRulesReport lists rules past the stale threshold.
type StaleRulesReport struct {
	ThresholdDays int                `json:"thresholdDays"`
	Count         int                `json:"count"`
	Items         []StaleRuleInsight `json:"items"`
}

// ConflictsReport lists the strongest conflicts.
type ConflictsReport struct {
	Count int               `json:"count"`
	Items []ConflictInsight `json:"items"`
}

// DuplicatesReport lists the most similar duplicate pairs.
type DuplicatesReport struct {
	Count int             `json:"count"`
	Items []DuplicatePair `json:"items"`
}

// MemoryInsights is the full analysis of a memory snapshot.
type MemoryInsights struct {
	GeneratedAt string           `json:"generatedAt"`
	MemoryCount int              `json:"memoryCount"`
	StaleRules  StaleRulesReport `json:"staleRules"`
	Conflicts   ConflictsReport  `json:"conflicts"`
	Duplicates  DuplicatesReport `json:"duplicates"`
	Weekly      WeeklySummary    `json:"weekly"`
	Actions     ActionsReport    `json:"actions"`
}

// Engine runs the analysis with a pluggable polarity classifier.
type Engine struct {
	classifier Classifier
	log        *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClassifier replaces the default RegexClassifier.
func WithClassifier(c Classifier) EngineOption {
	return func(e *Engine) { e.classifier = c }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an Engine using the regex classifier and a no-op logger
// unless overridden.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{classifier: RegexClassifier{}, log: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Build analyzes memories. The slice is only read.
func (e *Engine) Build(memories []model.Memory, opts Options) *MemoryInsights {
	opts = opts.withDefaults()
	nowMs := opts.nowMs()

	prepared := prepare(memories, e.classifier)
	stale := detectStaleRules(prepared, opts.StaleRuleDays, nowMs)
	conflicts, conflictTotal := detectConflicts(prepared)
	duplicates, duplicateTotal := detectDuplicates(prepared)
	weekly := buildWeeklySummary(prepared, opts.WeeklyWindowDays, nowMs)
	actions := generateActions(stale, duplicates, conflicts, prepared)

	e.log.Debug("memory insights built",
		zap.Int("memories", len(prepared)),
		zap.Int("stale_rules", len(stale)),
		zap.Int("conflicts", conflictTotal),
		zap.Int("duplicates", duplicateTotal),
		zap.Int("actions", actions.Total),
	)

	conflictItems := make([]ConflictInsight, 0, reportItemCap)
	for i, c := range conflicts {
		if i == reportItemCap {
			break
		}
		conflictItems = append(conflictItems, c.insight())
	}
	duplicateItems := make([]DuplicatePair, 0, len(duplicates))
	for _, d := range duplicates {
		duplicateItems = append(duplicateItems, d.pair())
	}
	staleItems := stale
	if len(staleItems) > reportItemCap {
		staleItems = staleItems[:reportItemCap]
	}

	return &MemoryInsights{
		GeneratedAt: formatMillis(nowMs),
		MemoryCount: len(prepared),
		StaleRules: StaleRulesReport{
			ThresholdDays: opts.StaleRuleDays,
			Count:         len(stale),
			Items:         staleItems,
		},
		Conflicts:  ConflictsReport{Count: conflictTotal, Items: conflictItems},
		Duplicates: DuplicatesReport{Count: duplicateTotal, Items: duplicateItems},
		Weekly:     weekly,
		Actions:    actions,
	}
}

// BuildMemoryInsights analyzes memories with the default engine.
func BuildMemoryInsights(memories []model.Memory, opts Options) *MemoryInsights {
	return NewEngine().Build(memories, opts)
}
