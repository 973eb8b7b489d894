package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rcliao/memory-insights/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	src.Put(ctx, PutParams{Content: "rule one", Type: model.TypeRule, ProjectID: "p1", Tags: []string{"ci"}})
	src.Put(ctx, PutParams{Content: "global fact", Type: model.TypeFact})

	exported, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(exported))
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}

	got, err := dst.Get(ctx, exported[0].ID)
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	if got.CreatedAt != exported[0].CreatedAt || got.TagsString() != "ci" || got.Project() != "p1" {
		t.Errorf("imported memory lost fields: %+v", got)
	}

	// Re-importing skips existing ids.
	n, _ = dst.Import(ctx, exported)
	if n != 0 {
		t.Errorf("expected 0 on re-import, got %d", n)
	}
}

func TestExportByProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, PutParams{Content: "p1 note", ProjectID: "p1"})
	s.Put(ctx, PutParams{Content: "global note"})

	exported, _ := s.ExportAll(ctx, "p1")
	if len(exported) != 1 || exported[0].Content != "p1 note" {
		t.Errorf("expected only p1 memory, got %+v", exported)
	}
}

func TestImportFillsDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Import(ctx, []model.Memory{{Content: "bare"}})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 imported, got %d", n)
	}
	all, _ := s.List(ctx, ListParams{})
	if len(all) != 1 || all[0].ID == "" || all[0].Type != model.TypeNote || all[0].Scope != model.ScopeGlobal {
		t.Errorf("expected defaults filled, got %+v", all)
	}
}

func TestImportRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Import(ctx, []model.Memory{{Content: "ok"}, {Content: "bad", Type: "episodic"}})
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	all, _ := s.List(ctx, ListParams{})
	if len(all) != 0 {
		t.Errorf("expected rollback, got %d memories", len(all))
	}
}
