// Package remediation applies the actions proposed by an insights report to a
// memory store.
package remediation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/memory-insights/internal/insights"
	"github.com/rcliao/memory-insights/internal/model"
	"github.com/rcliao/memory-insights/internal/store"
)

// Writer is the subset of the store the applier needs.
type Writer interface {
	Get(ctx context.Context, id string) (*model.Memory, error)
	Rm(ctx context.Context, p store.RmParams) error
	SetTags(ctx context.Context, id string, tags []string) (*model.Memory, error)
	Link(ctx context.Context, p store.LinkParams) (*store.Link, error)
}

// Result reports the outcome of one action.
type Result struct {
	ActionID string `json:"actionId"`
	Kind     string `json:"kind"`
	Applied  bool   `json:"applied"`
	Error    string `json:"error,omitempty"`
}

// Applier applies insight actions to a store.
type Applier struct {
	store  Writer
	log    *zap.Logger
	dryRun bool
}

// Option configures an Applier.
type Option func(*Applier)

// DryRun validates actions against the store without writing.
func DryRun(on bool) Option {
	return func(a *Applier) { a.dryRun = on }
}

// WithLogger sets the logger for per-action outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(a *Applier) { a.log = l }
}

// NewApplier returns an Applier writing to w with a no-op logger by default.
func NewApplier(w Writer, opts ...Option) *Applier {
	a := &Applier{store: w, log: zap.NewNop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Apply runs each action in order. A failing action is reported in its
// Result and does not stop the remaining ones.
func (a *Applier) Apply(ctx context.Context, actions []insights.InsightAction) []Result {
	results := make([]Result, 0, len(actions))
	for _, act := range actions {
		r := Result{ActionID: act.ID, Kind: act.Kind}
		if err := a.apply(ctx, act); err != nil {
			r.Error = err.Error()
			a.log.Warn("action failed", zap.String("action", act.ID), zap.Error(err))
		} else {
			r.Applied = !a.dryRun
			a.log.Debug("action applied", zap.String("action", act.ID), zap.Bool("dry_run", a.dryRun))
		}
		results = append(results, r)
	}
	return results
}

func (a *Applier) apply(ctx context.Context, act insights.InsightAction) error {
	for _, id := range act.MemoryIDs {
		if _, err := a.store.Get(ctx, id); err != nil {
			return err
		}
	}

	switch act.Kind {
	case insights.ActionArchive:
		if len(act.MemoryIDs) != 1 {
			return fmt.Errorf("archive expects 1 memory, got %d", len(act.MemoryIDs))
		}
		if a.dryRun {
			return nil
		}
		return a.store.Rm(ctx, store.RmParams{ID: act.MemoryIDs[0]})

	case insights.ActionMerge:
		if len(act.MemoryIDs) != 2 {
			return fmt.Errorf("merge expects 2 memories, got %d", len(act.MemoryIDs))
		}
		if a.dryRun {
			return nil
		}
		keep, drop := act.MemoryIDs[0], act.MemoryIDs[1]
		if _, err := a.store.Link(ctx, store.LinkParams{FromID: drop, ToID: keep, Rel: store.RelDuplicates}); err != nil {
			return fmt.Errorf("link duplicate: %w", err)
		}
		return a.store.Rm(ctx, store.RmParams{ID: drop})

	case insights.ActionRelabel:
		if len(act.MemoryIDs) != 1 || len(act.ProposedTags) == 0 {
			return fmt.Errorf("relabel expects 1 memory and proposed tags")
		}
		if a.dryRun {
			return nil
		}
		_, err := a.store.SetTags(ctx, act.MemoryIDs[0], act.ProposedTags)
		return err

	default:
		return fmt.Errorf("unknown action kind %q", act.Kind)
	}
}

// RecordConflicts links each reported conflict pair with a contradicts
// relation and returns how many links were written.
func (a *Applier) RecordConflicts(ctx context.Context, conflicts []insights.ConflictInsight) (int, error) {
	n := 0
	for _, c := range conflicts {
		if a.dryRun {
			n++
			continue
		}
		_, err := a.store.Link(ctx, store.LinkParams{FromID: c.MemoryA.ID, ToID: c.MemoryB.ID, Rel: store.RelContradicts})
		if err != nil {
			return n, fmt.Errorf("record conflict %s: %w", c.ID, err)
		}
		n++
	}
	return n, nil
}

// Filter keeps the actions whose kind is in kinds. An empty kinds keeps all.
func Filter(actions []insights.InsightAction, kinds []string) []insights.InsightAction {
	if len(kinds) == 0 {
		return actions
	}
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []insights.InsightAction
	for _, act := range actions {
		if want[act.Kind] {
			out = append(out, act)
		}
	}
	return out
}
