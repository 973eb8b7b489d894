package insights

import (
	"strings"
	"time"

	"github.com/rcliao/memory-insights/internal/model"
)

const globalProjectKey = "global"

// PreparedMemory is a memory with the derived fields every detector reads.
type PreparedMemory struct {
	Memory      *model.Memory
	CreatedAtMs int64
	UpdatedAtMs int64
	ProjectKey  string
	Tags        []string
	Tokens      []string
	TopicTokens []string
	Polarity    Polarity
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp returns epoch milliseconds for s, or 0 when s cannot be parsed.
// Timestamps without a zone are read as UTC.
func parseTimestamp(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

func projectKey(m *model.Memory) string {
	if m.Scope == model.ScopeGlobal || m.Project() == "" {
		return globalProjectKey
	}
	return m.Project()
}

// prepare derives a PreparedMemory for every input memory, in input order.
func prepare(memories []model.Memory, classifier Classifier) []PreparedMemory {
	prepared := make([]PreparedMemory, 0, len(memories))
	for i := range memories {
		m := &memories[i]
		created := parseTimestamp(m.CreatedAt)
		updated := created
		if strings.TrimSpace(m.UpdatedAt) != "" {
			updated = parseTimestamp(m.UpdatedAt)
		}
		if updated < created {
			updated = created
		}

		tags := ParseTags(m.TagsString())
		tokens := TextTokens(m.Content)
		head := tokens
		if len(head) > topicTokenCap {
			head = head[:topicTokenCap]
		}

		prepared = append(prepared, PreparedMemory{
			Memory:      m,
			CreatedAtMs: created,
			UpdatedAtMs: updated,
			ProjectKey:  projectKey(m),
			Tags:        tags,
			Tokens:      tokens,
			TopicTokens: unique(tags, head),
			Polarity:    classifier.Classify(m.Content),
		})
	}
	return prepared
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
