package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/memory-insights/internal/model"
)

// ExportAll returns all live memories, optionally limited to one project.
func (s *SQLiteStore) ExportAll(ctx context.Context, projectID string) ([]model.Memory, error) {
	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	if projectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, projectID)
	}

	query := `SELECT ` + memoryColumns + ` FROM memories WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at, id`
	return s.queryMemories(ctx, query, args...)
}

// Import stores memories from an export, keeping their ids and timestamps.
// Memories whose id already exists are skipped. Missing ids and created_at
// values are filled in.
func (s *SQLiteStore) Import(ctx context.Context, memories []model.Memory) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for i, m := range memories {
		if strings.TrimSpace(m.Content) == "" {
			return 0, fmt.Errorf("memory %d: %w", i, ErrEmptyContent)
		}
		if m.Type == "" {
			m.Type = model.TypeNote
		}
		m.Type, m.Scope, err = normalizeScope(m.Type, m.Scope, m.Project())
		if err != nil {
			return 0, fmt.Errorf("memory %d: %w", i, err)
		}
		now, ts := s.timestamp()
		if m.ID == "" {
			m.ID = s.newID(now)
		}
		if m.CreatedAt == "" {
			m.CreatedAt = ts
		}

		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE id = ?`, m.ID).Scan(&exists); err != nil {
			return 0, err
		}
		if exists > 0 {
			continue
		}
		if err := s.insert(ctx, tx, m); err != nil {
			return 0, fmt.Errorf("import %s: %w", m.ID, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
