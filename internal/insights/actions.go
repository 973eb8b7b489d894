package insights

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Action kinds.
const (
	ActionArchive = "archive"
	ActionMerge   = "merge"
	ActionRelabel = "relabel"
)

const (
	archiveStaleCap    = 4
	archiveConflictCap = 3
	archiveTotalCap    = 6
	mergeCap           = 3
	relabelCandidates  = 4
	relabelTagCap      = 3
)

// InsightAction is a suggested remediation for one or more memories.
type InsightAction struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	Title        string   `json:"title"`
	Reason       string   `json:"reason"`
	MemoryIDs    []string `json:"memoryIds"`
	ProposedTags []string `json:"proposedTags,omitempty"`
}

// ActionsReport groups generated actions by kind.
type ActionsReport struct {
	Total   int             `json:"total"`
	Archive []InsightAction `json:"archive"`
	Merge   []InsightAction `json:"merge"`
	Relabel []InsightAction `json:"relabel"`
}

// All returns every action in archive, merge, relabel order.
func (r ActionsReport) All() []InsightAction {
	all := make([]InsightAction, 0, r.Total)
	all = append(all, r.Archive...)
	all = append(all, r.Merge...)
	return append(all, r.Relabel...)
}

func generateActions(stale []StaleRuleInsight, duplicates []duplicateMatch, conflicts []conflictMatch, prepared []PreparedMemory) ActionsReport {
	report := ActionsReport{
		Archive: archiveActions(stale, conflicts),
		Merge:   mergeActions(duplicates),
		Relabel: relabelActions(prepared),
	}
	report.Total = len(report.Archive) + len(report.Merge) + len(report.Relabel)
	return report
}

func archiveActions(stale []StaleRuleInsight, conflicts []conflictMatch) []InsightAction {
	var candidates []InsightAction
	for i, s := range stale {
		if i == archiveStaleCap {
			break
		}
		candidates = append(candidates, InsightAction{
			ID:        "archive:" + s.ID,
			Kind:      ActionArchive,
			Title:     "Archive stale rule",
			Reason:    fmt.Sprintf("Rule has not been updated in %d days.", s.AgeDays),
			MemoryIDs: []string{s.ID},
		})
	}
	for i, c := range conflicts {
		if i == archiveConflictCap {
			break
		}
		target := c.older()
		other := c.a
		if target == c.a {
			other = c.b
		}
		candidates = append(candidates, InsightAction{
			ID:        "archive:" + target.Memory.ID,
			Kind:      ActionArchive,
			Title:     "Archive conflicting " + target.Memory.Type,
			Reason:    fmt.Sprintf("Conflicts with %s (score %d) and is the older of the two.", other.Memory.ID, c.score),
			MemoryIDs: []string{target.Memory.ID},
		})
	}

	actions := []InsightAction{}
	seen := make(map[string]bool)
	for _, a := range candidates {
		if seen[a.MemoryIDs[0]] {
			continue
		}
		seen[a.MemoryIDs[0]] = true
		actions = append(actions, a)
		if len(actions) == archiveTotalCap {
			break
		}
	}
	return actions
}

func mergeActions(duplicates []duplicateMatch) []InsightAction {
	actions := []InsightAction{}
	for i, d := range duplicates {
		if i == mergeCap {
			break
		}
		actions = append(actions, InsightAction{
			ID:        "merge:" + d.a.Memory.ID + ":" + d.b.Memory.ID,
			Kind:      ActionMerge,
			Title:     "Merge duplicate " + d.a.Memory.Type + "s",
			Reason:    fmt.Sprintf("Content is %d%% similar within %s.", int(roundHalfUp(d.similarity*100)), d.a.ProjectKey),
			MemoryIDs: []string{d.a.Memory.ID, d.b.Memory.ID},
		})
	}
	return actions
}

func relabelActions(prepared []PreparedMemory) []InsightAction {
	var untagged []*PreparedMemory
	for i := range prepared {
		if len(prepared[i].Tags) == 0 {
			untagged = append(untagged, &prepared[i])
		}
	}
	sort.SliceStable(untagged, func(i, j int) bool {
		li := utf8.RuneCountInString(untagged[i].Memory.Content)
		lj := utf8.RuneCountInString(untagged[j].Memory.Content)
		if li != lj {
			return li > lj
		}
		return untagged[i].UpdatedAtMs > untagged[j].UpdatedAtMs
	})
	if len(untagged) > relabelCandidates {
		untagged = untagged[:relabelCandidates]
	}

	actions := []InsightAction{}
	for _, p := range untagged {
		var proposed []string
		for _, t := range p.TopicTokens {
			if len(t) < minTokenLen {
				continue
			}
			proposed = append(proposed, t)
			if len(proposed) == relabelTagCap {
				break
			}
		}
		if len(proposed) == 0 {
			continue
		}
		actions = append(actions, InsightAction{
			ID:           "relabel:" + p.Memory.ID,
			Kind:         ActionRelabel,
			Title:        "Add tags to untagged " + p.Memory.Type,
			Reason:       "Untagged memories are hard to scope; suggested tags: " + strings.Join(proposed, ", ") + ".",
			MemoryIDs:    []string{p.Memory.ID},
			ProposedTags: proposed,
		})
	}
	return actions
}
