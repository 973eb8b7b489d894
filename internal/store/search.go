package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/memory-insights/internal/model"
)

// SearchParams holds parameters for searching memories.
type SearchParams struct {
	Query     string
	Type      string
	ProjectID string
	Limit     int
}

// Search finds live memories whose content or tags contain the query substring.
// With a ProjectID, global memories are searched too.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Memory, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + strings.TrimSpace(p.Query) + "%"

	where := []string{"deleted_at IS NULL"}
	var args []interface{}

	if p.Type != "" {
		where = append(where, "type = ?")
		args = append(args, p.Type)
	}
	if p.ProjectID != "" {
		where = append(where, "(scope = 'global' OR project_id = ?)")
		args = append(args, p.ProjectID)
	}

	sql := fmt.Sprintf(`
		SELECT %s FROM memories
		WHERE %s AND (content LIKE ? OR tags LIKE ?)
		ORDER BY updated_at DESC, id DESC
		LIMIT ?`, memoryColumns, strings.Join(where, " AND "))
	args = append(args, query, query, limit)

	return s.queryMemories(ctx, sql, args...)
}
