package store

import (
	"context"
	"fmt"
)

// Relations between memories.
const (
	RelRelatesTo   = "relates_to"
	RelContradicts = "contradicts"
	RelDuplicates  = "duplicates"
	RelSupersedes  = "supersedes"
)

// LinkParams holds parameters for creating/removing a link.
type LinkParams struct {
	FromID string
	ToID   string
	Rel    string // relates_to | contradicts | duplicates | supersedes
	Remove bool
}

// Link represents a relation between two memories.
type Link struct {
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	Rel       string `json:"rel"`
	CreatedAt string `json:"created_at,omitempty"`
}

var validRels = map[string]bool{
	RelRelatesTo:   true,
	RelContradicts: true,
	RelDuplicates:  true,
	RelSupersedes:  true,
}

// Link creates or removes a relation between two memories.
func (s *SQLiteStore) Link(ctx context.Context, p LinkParams) (*Link, error) {
	if !validRels[p.Rel] {
		return nil, fmt.Errorf("invalid relation %q (valid: relates_to, contradicts, duplicates, supersedes)", p.Rel)
	}
	if p.FromID == p.ToID {
		return nil, fmt.Errorf("cannot link memory %s to itself", p.FromID)
	}

	if p.Remove {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM memory_links WHERE from_id = ? AND to_id = ? AND rel = ?`,
			p.FromID, p.ToID, p.Rel)
		if err != nil {
			return nil, err
		}
		return &Link{FromID: p.FromID, ToID: p.ToID, Rel: p.Rel}, nil
	}

	if _, err := s.Get(ctx, p.FromID); err != nil {
		return nil, fmt.Errorf("resolve from: %w", err)
	}
	if _, err := s.Get(ctx, p.ToID); err != nil {
		return nil, fmt.Errorf("resolve to: %w", err)
	}

	_, now := s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO memory_links (from_id, to_id, rel, created_at) VALUES (?, ?, ?, ?)`,
		p.FromID, p.ToID, p.Rel, now)
	if err != nil {
		return nil, err
	}

	return &Link{FromID: p.FromID, ToID: p.ToID, Rel: p.Rel, CreatedAt: now}, nil
}

// GetLinks returns all links for a memory.
func (s *SQLiteStore) GetLinks(ctx context.Context, memoryID string) ([]Link, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT from_id, to_id, rel, created_at FROM memory_links
		 WHERE from_id = ? OR to_id = ? ORDER BY created_at, from_id, to_id`, memoryID, memoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []Link{}
	for rows.Next() {
		var l Link
		if err := rows.Scan(&l.FromID, &l.ToID, &l.Rel, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
