package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath           string         `json:"db_path"`
	DBSizeBytes      int64          `json:"db_size_bytes"`
	TotalMemories    int            `json:"total_memories"`
	ActiveMemories   int            `json:"active_memories"`
	ArchivedMemories int            `json:"archived_memories"`
	Links            int            `json:"links"`
	Types            []CountStats   `json:"types"`
	Projects         []ProjectStats `json:"projects"`
}

// CountStats is a labelled count.
type CountStats struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProjectStats holds per-project counts. Global memories are reported under "global".
type ProjectStats struct {
	Project string `json:"project"`
	Count   int    `json:"count"`
	Rules   int    `json:"rules"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Types: []CountStats{}, Projects: []ProjectStats{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&st.TotalMemories)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE deleted_at IS NULL`).Scan(&st.ActiveMemories)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_links`).Scan(&st.Links)
	st.ArchivedMemories = st.TotalMemories - st.ActiveMemories

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, COUNT(*) AS cnt
		FROM memories WHERE deleted_at IS NULL
		GROUP BY type ORDER BY cnt DESC, type`)
	if err != nil {
		return st, err
	}
	for rows.Next() {
		var c CountStats
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			rows.Close()
			return st, err
		}
		st.Types = append(st.Types, c)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT CASE WHEN scope = 'global' OR project_id IS NULL OR project_id = '' THEN 'global' ELSE project_id END AS project,
		       COUNT(*) AS cnt,
		       SUM(CASE WHEN type = 'rule' THEN 1 ELSE 0 END) AS rules
		FROM memories WHERE deleted_at IS NULL
		GROUP BY project ORDER BY cnt DESC, project`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProjectStats
		if err := rows.Scan(&p.Project, &p.Count, &p.Rules); err != nil {
			return st, err
		}
		st.Projects = append(st.Projects, p)
	}

	return st, rows.Err()
}
