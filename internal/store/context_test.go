package store

import (
	"context"
	"strings"
	"testing"

	"github.com/rcliao/memory-insights/internal/model"
)

func TestContextRulesFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, PutParams{Content: "Always write tests", Type: model.TypeRule})
	s.Put(ctx, PutParams{Content: "Project rule for p1", Type: model.TypeRule, ProjectID: "p1"})
	s.Put(ctx, PutParams{Content: "Rule for another project", Type: model.TypeRule, ProjectID: "p2"})
	s.Put(ctx, PutParams{Content: "We chose postgres for billing", Type: model.TypeDecision, ProjectID: "p1"})
	s.Put(ctx, PutParams{Content: "postgres runs on port 5432", Type: model.TypeFact, ProjectID: "p1"})

	result, err := s.Context(ctx, ContextParams{Query: "postgres", ProjectID: "p1"})
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if len(result.Rules) != 2 {
		t.Errorf("expected 2 rules in scope, got %d", len(result.Rules))
	}
	if len(result.Memories) != 2 {
		t.Fatalf("expected 2 matching memories, got %d", len(result.Memories))
	}
	if result.Memories[0].Type != model.TypeDecision {
		t.Errorf("expected decision to outrank fact, got %s", result.Memories[0].Type)
	}
	if result.Budget != 4000 {
		t.Errorf("expected default budget 4000, got %d", result.Budget)
	}
	if result.Used <= 0 {
		t.Errorf("expected used > 0, got %d", result.Used)
	}
}

func TestContextNoQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Put(ctx, PutParams{Content: "Always write tests", Type: model.TypeRule})
	s.Put(ctx, PutParams{Content: "some note"})

	result, err := s.Context(ctx, ContextParams{})
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if len(result.Rules) != 1 || len(result.Memories) != 0 {
		t.Errorf("expected only rules without a query, got %d rules %d memories", len(result.Rules), len(result.Memories))
	}
}

func TestContextBudgetExcerpt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// The newer rule scores higher and is packed first.
	s.Put(ctx, PutParams{Content: strings.Repeat("b", 600), Type: model.TypeRule})
	s.Put(ctx, PutParams{Content: strings.Repeat("a", 300), Type: model.TypeRule})

	// 100 tokens = 400 chars.
	result, err := s.Context(ctx, ContextParams{Budget: 100})
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if len(result.Rules) != 2 {
		t.Fatalf("expected one full and one excerpted rule, got %d", len(result.Rules))
	}
	if result.Rules[0].Excerpt {
		t.Error("first rule should fit whole")
	}
	if !result.Rules[1].Excerpt {
		t.Error("second rule should be excerpted")
	}
	if got := len(result.Rules[1].Content); got != 103 {
		t.Errorf("expected excerpt of 100 chars plus ellipsis, got %d", got)
	}
}
