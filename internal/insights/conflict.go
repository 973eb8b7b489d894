package insights

import (
	"math"
	"sort"

	"github.com/rcliao/memory-insights/internal/model"
)

const (
	conflictCandidateCap   = 8
	conflictMinSimilarity  = 0.2
	conflictMinSharedTopic = 2
)

// ConflictMemory is one side of a conflict.
type ConflictMemory struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Polarity  Polarity `json:"polarity"`
	UpdatedAt string   `json:"updatedAt"`
	Preview   string   `json:"preview"`
}

// ConflictInsight is a same-project pair of rules or decisions that point in
// opposite directions about overlapping topics.
type ConflictInsight struct {
	ID           string         `json:"id"`
	Project      string         `json:"project"`
	MemoryA      ConflictMemory `json:"memoryA"`
	MemoryB      ConflictMemory `json:"memoryB"`
	SharedTags   []string       `json:"sharedTags"`
	SharedTopics []string       `json:"sharedTopics"`
	Similarity   float64        `json:"similarity"`
	Score        int            `json:"score"`
}

type conflictMatch struct {
	a, b         *PreparedMemory
	sharedTags   []string
	sharedTopics []string
	similarity   float64
	score        int
}

func (c conflictMatch) insight() ConflictInsight {
	return ConflictInsight{
		ID:           "conflict:" + c.a.Memory.ID + ":" + c.b.Memory.ID,
		Project:      c.a.ProjectKey,
		MemoryA:      conflictSide(c.a),
		MemoryB:      conflictSide(c.b),
		SharedTags:   c.sharedTags,
		SharedTopics: c.sharedTopics,
		Similarity:   roundTo(c.similarity, 2),
		Score:        c.score,
	}
}

func conflictSide(p *PreparedMemory) ConflictMemory {
	return ConflictMemory{
		ID:        p.Memory.ID,
		Type:      p.Memory.Type,
		Polarity:  p.Polarity,
		UpdatedAt: formatMillis(p.UpdatedAtMs),
		Preview:   preview(p.Memory.Content),
	}
}

// older returns the side that was updated first, preferring a on ties.
func (c conflictMatch) older() *PreparedMemory {
	if c.b.UpdatedAtMs < c.a.UpdatedAtMs {
		return c.b
	}
	return c.a
}

func isConflictCandidate(p *PreparedMemory) bool {
	if p.Polarity == PolarityNeutral {
		return false
	}
	return p.Memory.Type == model.TypeRule || p.Memory.Type == model.TypeDecision
}

// detectConflicts scores every opposite-polarity pair within a project and
// returns the strongest matches (at most conflictCandidateCap) along with the
// total number of matches found.
func detectConflicts(prepared []PreparedMemory) ([]conflictMatch, int) {
	var candidates []*PreparedMemory
	for i := range prepared {
		if isConflictCandidate(&prepared[i]) {
			candidates = append(candidates, &prepared[i])
		}
	}

	matches := []conflictMatch{}
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.ProjectKey != b.ProjectKey || a.Polarity == b.Polarity {
				continue
			}
			sharedTags := SharedValues(a.Tags, b.Tags)
			sharedTopics := SharedValues(a.TopicTokens, b.TopicTokens)
			if len(sharedTags) == 0 && len(sharedTopics) < conflictMinSharedTopic {
				continue
			}
			similarity := JaccardSimilarity(a.Tokens, b.Tokens)
			if len(sharedTags) == 0 && similarity < conflictMinSimilarity {
				continue
			}
			matches = append(matches, conflictMatch{
				a:            a,
				b:            b,
				sharedTags:   sharedTags,
				sharedTopics: sharedTopics,
				similarity:   similarity,
				score:        len(sharedTags)*3 + len(sharedTopics)*2 + int(roundHalfUp(similarity*10)),
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].similarity > matches[j].similarity
	})

	total := len(matches)
	if len(matches) > conflictCandidateCap {
		matches = matches[:conflictCandidateCap]
	}
	return matches, total
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return roundHalfUp(x*p) / p
}
