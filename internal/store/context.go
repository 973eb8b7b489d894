package store

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rcliao/memory-insights/internal/model"
)

// ContextParams holds parameters for context assembly.
type ContextParams struct {
	Query     string
	ProjectID string
	Budget    int // max tokens in output (rough: 1 token ≈ 4 chars)
	Limit     int // max non-rule memories considered
}

// ContextMemory is a scored memory for context output.
type ContextMemory struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Excerpt bool    `json:"excerpt,omitempty"`
}

// ContextResult is the assembled context response.
type ContextResult struct {
	Budget   int             `json:"budget"`
	Used     int             `json:"used"`
	Rules    []ContextMemory `json:"rules"`
	Memories []ContextMemory `json:"memories"`
}

// Context assembles the rules in scope plus the memories matching the query,
// scored and greedily packed into the token budget. Rules are packed first.
func (s *SQLiteStore) Context(ctx context.Context, p ContextParams) (*ContextResult, error) {
	budget := p.Budget
	if budget <= 0 {
		budget = 4000
	}
	charBudget := budget * 4

	rules, err := s.Search(ctx, SearchParams{Type: model.TypeRule, ProjectID: p.ProjectID, Limit: 50})
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	var matches []model.Memory
	if p.Query != "" {
		matches, err = s.Search(ctx, SearchParams{Query: p.Query, ProjectID: p.ProjectID, Limit: limit})
		if err != nil {
			return nil, err
		}
	}
	var memories []model.Memory
	for _, m := range matches {
		if m.Type != model.TypeRule {
			memories = append(memories, m)
		}
	}

	now := s.now()
	result := &ContextResult{Budget: budget, Rules: []ContextMemory{}, Memories: []ContextMemory{}}
	used := 0
	result.Rules, used = pack(score(rules, now), charBudget, used)
	result.Memories, used = pack(score(memories, now), charBudget, used)

	result.Used = used / 4
	return result, nil
}

type scored struct {
	memory model.Memory
	score  float64
}

func score(memories []model.Memory, now time.Time) []scored {
	candidates := make([]scored, 0, len(memories))
	for _, m := range memories {
		updated, err := time.Parse(time.RFC3339, m.UpdatedAt)
		if err != nil {
			updated = time.Unix(0, 0)
		}
		// Recency: exponential decay over days since the last update
		age := now.Sub(updated).Hours() / 24.0
		recency := math.Exp(-0.1 * math.Max(age, 0))

		s := 0.4 + recency*0.3 + typeScore(m.Type)*0.3
		candidates = append(candidates, scored{memory: m, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}

// pack appends candidates until the char budget runs out. A final candidate
// that does not fit is excerpted when at least 100 chars remain.
func pack(candidates []scored, charBudget, used int) ([]ContextMemory, int) {
	out := []ContextMemory{}
	for _, c := range candidates {
		contentLen := len(c.memory.Content)
		cm := ContextMemory{
			ID:      c.memory.ID,
			Type:    c.memory.Type,
			Content: c.memory.Content,
			Score:   math.Round(c.score*100) / 100,
		}
		if used+contentLen <= charBudget {
			out = append(out, cm)
			used += contentLen
			continue
		}
		if remaining := charBudget - used; remaining >= 100 {
			cm.Content = c.memory.Content[:remaining] + "..."
			cm.Excerpt = true
			out = append(out, cm)
			used += len(cm.Content)
		}
		break
	}
	return out, used
}

func typeScore(t string) float64 {
	switch t {
	case model.TypeRule:
		return 1.0
	case model.TypeDecision:
		return 0.8
	case model.TypeSkill:
		return 0.6
	case model.TypeFact:
		return 0.5
	default:
		return 0.4
	}
}
