package insights

import "sort"

// Trend directions for the weekly summary.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

const (
	weeklyTypeCap    = 5
	weeklyProjectCap = 5
	weeklyTagCap     = 8
	trendThreshold   = 10
)

// Bucket is a named count.
type Bucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WeeklySummary compares how many memories changed in the current window
// against the window immediately before it.
type WeeklySummary struct {
	WindowDays           int      `json:"windowDays"`
	CurrentStart         string   `json:"currentStart"`
	CurrentEnd           string   `json:"currentEnd"`
	PreviousStart        string   `json:"previousStart"`
	ChangedCount         int      `json:"changedCount"`
	PreviousChangedCount int      `json:"previousChangedCount"`
	NewCount             int      `json:"newCount"`
	UpdatedCount         int      `json:"updatedCount"`
	DeltaPercent         *float64 `json:"deltaPercent"`
	Trend                string   `json:"trend"`
	ByType               []Bucket `json:"byType"`
	TopProjects          []Bucket `json:"topProjects"`
	TopTags              []Bucket `json:"topTags"`
}

func inWindow(ms, start, end int64) bool {
	return ms >= start && ms < end
}

func changedIn(p *PreparedMemory, start, end int64) bool {
	return inWindow(p.CreatedAtMs, start, end) || inWindow(p.UpdatedAtMs, start, end)
}

// buildWeeklySummary aggregates changes over [now-w, now) and [now-2w, now-w).
func buildWeeklySummary(prepared []PreparedMemory, windowDays int, nowMs int64) WeeklySummary {
	windowMs := int64(windowDays) * dayMs
	currentStart := nowMs - windowMs
	previousStart := nowMs - 2*windowMs

	var current []*PreparedMemory
	previousCount := 0
	for i := range prepared {
		p := &prepared[i]
		if changedIn(p, currentStart, nowMs) {
			current = append(current, p)
		}
		if changedIn(p, previousStart, currentStart) {
			previousCount++
		}
	}

	summary := WeeklySummary{
		WindowDays:           windowDays,
		CurrentStart:         formatMillis(currentStart),
		CurrentEnd:           formatMillis(nowMs),
		PreviousStart:        formatMillis(previousStart),
		ChangedCount:         len(current),
		PreviousChangedCount: previousCount,
	}

	types := newCounter()
	projects := newCounter()
	tags := newCounter()
	for _, p := range current {
		if p.CreatedAtMs >= currentStart {
			summary.NewCount++
		} else {
			summary.UpdatedCount++
		}
		types.add(p.Memory.Type)
		projects.add(p.ProjectKey)
		for _, t := range p.Tags {
			tags.add(t)
		}
	}
	summary.ByType = types.top(weeklyTypeCap)
	summary.TopProjects = projects.top(weeklyProjectCap)
	summary.TopTags = tags.top(weeklyTagCap)

	summary.Trend, summary.DeltaPercent = trend(len(current), previousCount)
	return summary
}

func trend(current, previous int) (string, *float64) {
	if previous == 0 {
		if current > 0 {
			return TrendUp, nil
		}
		return TrendStable, nil
	}
	delta := roundTo(float64(current-previous)/float64(previous)*100, 1)
	switch {
	case delta > trendThreshold:
		return TrendUp, &delta
	case delta < -trendThreshold:
		return TrendDown, &delta
	default:
		return TrendStable, &delta
	}
}

type counter struct {
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	c.counts[name]++
}

// top returns the n largest buckets, ties broken alphabetically.
func (c *counter) top(n int) []Bucket {
	buckets := make([]Bucket, 0, len(c.counts))
	for name, count := range c.counts {
		buckets = append(buckets, Bucket{Name: name, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Name < buckets[j].Name
	})
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}
