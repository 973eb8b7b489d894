package insights

import (
	"sort"

	"github.com/rcliao/memory-insights/internal/model"
)

const dayMs = 86_400_000

// StaleRuleInsight is a rule that has not been updated for at least the
// stale threshold.
type StaleRuleInsight struct {
	ID            string   `json:"id"`
	AgeDays       int      `json:"ageDays"`
	Project       string   `json:"project"`
	LastUpdatedAt string   `json:"lastUpdatedAt"`
	Tags          []string `json:"tags"`
	Preview       string   `json:"preview"`
}

// ageDays floors the elapsed whole days between updatedMs and nowMs.
func ageDays(nowMs, updatedMs int64) int {
	diff := nowMs - updatedMs
	days := diff / dayMs
	if diff%dayMs != 0 && diff < 0 {
		days--
	}
	return int(days)
}

// detectStaleRules returns every rule aged at least thresholdDays, oldest first.
func detectStaleRules(prepared []PreparedMemory, thresholdDays int, nowMs int64) []StaleRuleInsight {
	stale := []StaleRuleInsight{}
	for _, p := range prepared {
		if p.Memory.Type != model.TypeRule {
			continue
		}
		age := ageDays(nowMs, p.UpdatedAtMs)
		if age < thresholdDays {
			continue
		}
		stale = append(stale, StaleRuleInsight{
			ID:            p.Memory.ID,
			AgeDays:       age,
			Project:       p.ProjectKey,
			LastUpdatedAt: formatMillis(p.UpdatedAtMs),
			Tags:          p.Tags,
			Preview:       preview(p.Memory.Content),
		})
	}
	sort.SliceStable(stale, func(i, j int) bool {
		return stale[i].AgeDays > stale[j].AgeDays
	})
	return stale
}
