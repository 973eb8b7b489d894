package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-insights/internal/model"
)

func TestArchiveActions_DedupByTarget(t *testing.T) {
	memories := []model.Memory{
		newMemory("old-on", model.TypeRule, "Always require MFA for admin logins",
			withTags("mfa"), createdDaysAgo(60)),
		newMemory("new-off", model.TypeRule, "Do not require MFA for admin logins",
			withTags("mfa"), createdDaysAgo(2)),
	}
	prepared := prepare(memories, RegexClassifier{})
	stale := detectStaleRules(prepared, 45, testNow.UnixMilli())
	conflicts, _ := detectConflicts(prepared)
	require.Len(t, stale, 1)
	require.Len(t, conflicts, 1)

	actions := archiveActions(stale, conflicts)
	require.Len(t, actions, 1)
	assert.Equal(t, "archive:old-on", actions[0].ID)
	assert.Equal(t, "Rule has not been updated in 60 days.", actions[0].Reason, "stale candidate comes first")
}

func TestArchiveActions_Caps(t *testing.T) {
	var stale []StaleRuleInsight
	for i := 0; i < 6; i++ {
		stale = append(stale, StaleRuleInsight{ID: fmt.Sprintf("s%d", i), AgeDays: 100 - i})
	}
	var memories []model.Memory
	for i := 0; i < 4; i++ {
		memories = append(memories,
			newMemory(fmt.Sprintf("a%d", i), model.TypeDecision, "x", createdDaysAgo(10)),
			newMemory(fmt.Sprintf("b%d", i), model.TypeDecision, "y", createdDaysAgo(5)),
		)
	}
	prepared := prepare(memories, RegexClassifier{})
	var conflicts []conflictMatch
	for i := 0; i < 4; i++ {
		conflicts = append(conflicts, conflictMatch{a: &prepared[2*i+1], b: &prepared[2*i], score: 10 - i})
	}

	actions := archiveActions(stale, conflicts)
	require.Len(t, actions, archiveTotalCap)
	var targets []string
	for _, a := range actions {
		targets = append(targets, a.MemoryIDs[0])
	}
	assert.Equal(t, []string{"s0", "s1", "s2", "s3", "a0", "a1"}, targets)
	assert.Equal(t, "Archive conflicting decision", actions[4].Title)
	assert.Equal(t, "Conflicts with b0 (score 10) and is the older of the two.", actions[4].Reason)
}

func TestArchiveActions_EqualAgePrefersMemoryA(t *testing.T) {
	memories := []model.Memory{
		newMemory("first", model.TypeRule, "x", createdDaysAgo(3)),
		newMemory("second", model.TypeRule, "y", createdDaysAgo(3)),
	}
	prepared := prepare(memories, RegexClassifier{})
	actions := archiveActions(nil, []conflictMatch{{a: &prepared[0], b: &prepared[1]}})
	require.Len(t, actions, 1)
	assert.Equal(t, []string{"first"}, actions[0].MemoryIDs)
}

func TestMergeActions(t *testing.T) {
	memories := []model.Memory{
		newMemory("n1", model.TypeNote, pipelineNote, inProject("p1")),
		newMemory("n2", model.TypeNote, pipelineNote+" nightly", inProject("p1")),
	}
	duplicates, _ := detectDuplicates(prepare(memories, RegexClassifier{}))
	actions := mergeActions(duplicates)
	require.Len(t, actions, 1)
	assert.Equal(t, InsightAction{
		ID:        "merge:n1:n2",
		Kind:      ActionMerge,
		Title:     "Merge duplicate notes",
		Reason:    "Content is 89% similar within p1.",
		MemoryIDs: []string{"n1", "n2"},
	}, actions[0])
}

func TestRelabelActions(t *testing.T) {
	memories := []model.Memory{
		newMemory("short", model.TypeNote, "ok, go"),
		newMemory("rich", model.TypeNote, "Our staging database snapshots are refreshed every Sunday night "+
			"from production using anonymized exports, and the refresh script lives in the ops repository."),
		newMemory("tagged", model.TypeNote, "Plenty of content here but this one is already tagged", withTags("misc")),
		newMemory("medium", model.TypeFact, "Grafana dashboards live in the observability folder"),
	}
	actions := relabelActions(prepare(memories, RegexClassifier{}))
	require.Len(t, actions, 2)

	assert.Equal(t, "relabel:rich", actions[0].ID)
	assert.Equal(t, ActionRelabel, actions[0].Kind)
	assert.Equal(t, []string{"staging", "database", "snapshots"}, actions[0].ProposedTags)
	assert.Equal(t, []string{"rich"}, actions[0].MemoryIDs)

	assert.Equal(t, "relabel:medium", actions[1].ID)
	assert.Equal(t, []string{"grafana", "dashboards", "live"}, actions[1].ProposedTags)
}

func TestRelabelActions_OnlyTopFourCandidates(t *testing.T) {
	var memories []model.Memory
	for i := 0; i < 6; i++ {
		memories = append(memories, newMemory(fmt.Sprintf("m%d", i), model.TypeNote,
			fmt.Sprintf("Runbook entry %s describing failover", string(rune('a'+i))), createdDaysAgo(float64(10-i))))
	}
	actions := relabelActions(prepare(memories, RegexClassifier{}))
	require.Len(t, actions, relabelCandidates)
	assert.Equal(t, "relabel:m5", actions[0].ID, "equal length falls back to most recently updated")
}
