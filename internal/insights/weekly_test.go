package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/memory-insights/internal/model"
)

func buildWeekly(memories []model.Memory) WeeklySummary {
	return buildWeeklySummary(prepare(memories, RegexClassifier{}), 7, testNow.UnixMilli())
}

func TestWeeklySummary_TrendUpFromNothing(t *testing.T) {
	memories := []model.Memory{
		newMemory("a", model.TypeRule, "a", createdDaysAgo(1)),
		newMemory("b", model.TypeNote, "b", createdDaysAgo(2)),
		newMemory("c", model.TypeNote, "c", createdDaysAgo(6)),
		newMemory("old", model.TypeFact, "old", createdDaysAgo(30)),
	}
	w := buildWeekly(memories)
	assert.Equal(t, 3, w.ChangedCount)
	assert.Equal(t, 3, w.NewCount)
	assert.Equal(t, 0, w.UpdatedCount)
	assert.Equal(t, 0, w.PreviousChangedCount)
	assert.Equal(t, TrendUp, w.Trend)
	assert.Nil(t, w.DeltaPercent)
	assert.Equal(t, []Bucket{{"note", 2}, {"rule", 1}}, w.ByType)
	assert.Equal(t, 7, w.WindowDays)
}

func TestWeeklySummary_NewAndUpdatedPartition(t *testing.T) {
	memories := []model.Memory{
		newMemory("new", model.TypeNote, "n", createdDaysAgo(3)),
		newMemory("touched", model.TypeNote, "t", createdDaysAgo(20), updatedDaysAgo(3)),
		newMemory("prev-created", model.TypeNote, "p", createdDaysAgo(10)),
		newMemory("prev-updated", model.TypeNote, "q", createdDaysAgo(40), updatedDaysAgo(9)),
		newMemory("spans", model.TypeNote, "s", createdDaysAgo(8), updatedDaysAgo(1)),
		newMemory("untouched", model.TypeNote, "u", createdDaysAgo(40)),
	}
	w := buildWeekly(memories)
	assert.Equal(t, 3, w.ChangedCount)
	assert.Equal(t, 1, w.NewCount)
	assert.Equal(t, 2, w.UpdatedCount)
	assert.Equal(t, w.ChangedCount, w.NewCount+w.UpdatedCount)
	assert.Equal(t, 3, w.PreviousChangedCount, "spans counts in both windows")
	require.NotNil(t, w.DeltaPercent)
	assert.Equal(t, 0.0, *w.DeltaPercent)
	assert.Equal(t, TrendStable, w.Trend)
}

func TestWeeklySummary_WindowIsHalfOpen(t *testing.T) {
	memories := []model.Memory{
		newMemory("at-now", model.TypeNote, "x", createdDaysAgo(0)),
		newMemory("at-start", model.TypeNote, "y", createdDaysAgo(7)),
		newMemory("at-prev-start", model.TypeNote, "z", createdDaysAgo(14)),
	}
	w := buildWeekly(memories)
	assert.Equal(t, 1, w.ChangedCount)
	assert.Equal(t, 1, w.PreviousChangedCount)
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		previous  int
		wantTrend string
		wantDelta *float64
	}{
		{"empty", 0, 0, TrendStable, nil},
		{"from zero", 4, 0, TrendUp, nil},
		{"down", 1, 3, TrendDown, ptr(-66.7)},
		{"small rise is stable", 11, 10, TrendStable, ptr(10.0)},
		{"rise", 12, 10, TrendUp, ptr(20.0)},
		{"small drop is stable", 9, 10, TrendStable, ptr(-10.0)},
		{"to zero", 0, 5, TrendDown, ptr(-100.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTrend, gotDelta := trend(tt.current, tt.previous)
			assert.Equal(t, tt.wantTrend, gotTrend)
			assert.Equal(t, tt.wantDelta, gotDelta)
		})
	}
}

func TestWeeklySummary_TopBucketsTieBreakAlphabetically(t *testing.T) {
	var memories []model.Memory
	tags := []string{"zeta, beta", "beta, alpha", "gamma", "delta", "epsilon", "eta", "theta", "iota", "kappa"}
	projects := []string{"p9", "p9", "p3", "p1", "p2", "p4", "p5", "p6", "p7"}
	for i, tg := range tags {
		memories = append(memories, newMemory(projects[i]+tg, model.TypeNote, "x",
			createdDaysAgo(1), withTags(tg), inProject(projects[i])))
	}
	w := buildWeekly(memories)

	require.Len(t, w.TopTags, weeklyTagCap)
	assert.Equal(t, Bucket{"beta", 2}, w.TopTags[0])
	assert.Equal(t, []string{"alpha", "delta", "epsilon", "eta", "gamma", "iota", "kappa"}, bucketNames(w.TopTags[1:]))

	require.Len(t, w.TopProjects, weeklyProjectCap)
	assert.Equal(t, []string{"p9", "p1", "p2", "p3", "p4"}, bucketNames(w.TopProjects))
}

func bucketNames(buckets []Bucket) []string {
	names := make([]string, len(buckets))
	for i, b := range buckets {
		names[i] = b.Name
	}
	return names
}

func ptr(f float64) *float64 { return &f }
