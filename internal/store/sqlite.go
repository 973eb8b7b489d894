package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/memory-insights/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
	now     func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock overrides the clock used for created_at, updated_at and deleted_at.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) timestamp() (time.Time, string) {
	t := s.now().UTC()
	return t, t.Format(time.RFC3339)
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT 'note',
		scope       TEXT NOT NULL DEFAULT 'global',
		project_id  TEXT,
		tags        TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_memories_type ON memories(type);
	CREATE INDEX IF NOT EXISTS idx_memories_project ON memories(project_id);
	CREATE INDEX IF NOT EXISTS idx_memories_updated ON memories(updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_memories_deleted ON memories(deleted_at);

	CREATE TABLE IF NOT EXISTS memory_links (
		from_id    TEXT NOT NULL REFERENCES memories(id),
		to_id      TEXT NOT NULL REFERENCES memories(id),
		rel        TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (from_id, to_id, rel)
	);
	CREATE INDEX IF NOT EXISTS idx_links_to ON memory_links(to_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// normalizeScope picks the scope for a new memory and validates the type.
func normalizeScope(typ, scope, projectID string) (string, string, error) {
	if !model.ValidTypes[typ] {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if scope == "" {
		scope = model.ScopeGlobal
		if projectID != "" {
			scope = model.ScopeProject
		}
	}
	if !model.ValidScopes[scope] {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return typ, scope, nil
}

// joinTags trims tags and joins them into the stored comma-separated form.
func joinTags(tags []string) *string {
	var kept []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	joined := strings.Join(kept, ",")
	return &joined
}

func (s *SQLiteStore) Put(ctx context.Context, p PutParams) (*model.Memory, error) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	typ := p.Type
	if typ == "" {
		typ = model.TypeNote
	}
	typ, scope, err := normalizeScope(typ, p.Scope, p.ProjectID)
	if err != nil {
		return nil, err
	}

	now, ts := s.timestamp()
	mem := &model.Memory{
		ID:        s.newID(now),
		Content:   content,
		Tags:      joinTags(p.Tags),
		Type:      typ,
		Scope:     scope,
		ProjectID: model.StringPtr(p.ProjectID),
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.insert(ctx, s.db, *mem); err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	return mem, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) insert(ctx context.Context, db execer, m model.Memory) error {
	updated := m.UpdatedAt
	if updated == "" {
		updated = m.CreatedAt
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO memories (id, content, type, scope, project_id, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Content, m.Type, m.Scope, m.ProjectID, m.Tags, m.CreatedAt, updated)
	return err
}

func (s *SQLiteStore) Update(ctx context.Context, p UpdateParams) (*model.Memory, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	mem, err := getMemory(ctx, tx, p.ID)
	if err != nil {
		return nil, err
	}

	if p.Content != nil {
		content := strings.TrimSpace(*p.Content)
		if content == "" {
			return nil, ErrEmptyContent
		}
		mem.Content = content
	}
	if p.Type != nil {
		if !model.ValidTypes[*p.Type] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, *p.Type)
		}
		mem.Type = *p.Type
	}
	if p.Tags != nil {
		mem.Tags = joinTags(p.Tags)
	}
	_, mem.UpdatedAt = s.timestamp()

	_, err = tx.ExecContext(ctx,
		`UPDATE memories SET content = ?, type = ?, tags = ?, updated_at = ? WHERE id = ?`,
		mem.Content, mem.Type, mem.Tags, mem.UpdatedAt, mem.ID)
	if err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return mem, nil
}

// SetTags replaces the tags of a memory.
func (s *SQLiteStore) SetTags(ctx context.Context, id string, tags []string) (*model.Memory, error) {
	if tags == nil {
		tags = []string{}
	}
	return s.Update(ctx, UpdateParams{ID: id, Tags: tags})
}

const memoryColumns = `id, content, type, scope, project_id, tags, created_at, updated_at`

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getMemory(ctx context.Context, q querier, id string) (*model.Memory, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+memoryColumns+` FROM memories WHERE id = ? AND deleted_at IS NULL`, id)
	m, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Memory, error) {
	return getMemory(ctx, s.db, id)
}

// tagClause matches one tag inside the stored comma-separated tags column.
const tagClause = `(',' || lower(replace(tags, ' ', '')) || ',') LIKE ?`

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Memory, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"deleted_at IS NULL"}
	var args []interface{}

	if p.Type != "" {
		where = append(where, "type = ?")
		args = append(args, p.Type)
	}
	if p.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, p.ProjectID)
	}
	for _, tag := range p.Tags {
		where = append(where, tagClause)
		args = append(args, "%,"+strings.ToLower(strings.TrimSpace(tag))+",%")
	}

	query := fmt.Sprintf(`SELECT %s FROM memories WHERE %s ORDER BY updated_at DESC, id DESC LIMIT ?`,
		memoryColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.queryMemories(ctx, query, args...)
}

func (s *SQLiteStore) Snapshot(ctx context.Context, p SnapshotParams) ([]model.Memory, error) {
	where := "deleted_at IS NULL"
	var args []interface{}
	if p.ProjectID != "" {
		where += " AND (scope = 'global' OR project_id = ?)"
		args = append(args, p.ProjectID)
	}
	query := `SELECT ` + memoryColumns + ` FROM memories WHERE ` + where + ` ORDER BY created_at, id`
	return s.queryMemories(ctx, query, args...)
}

func (s *SQLiteStore) queryMemories(ctx context.Context, query string, args ...interface{}) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memories := []model.Memory{}
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	if _, err := s.Get(ctx, p.ID); err != nil {
		return err
	}

	if p.Hard {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
		if _, err := tx.ExecContext(ctx, `DELETE FROM memory_links WHERE from_id = ? OR to_id = ?`, p.ID, p.ID); err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, p.ID); err != nil {
			return fmt.Errorf("delete memory: %w", err)
		}
		return tx.Commit()
	}

	_, ts := s.timestamp()
	_, err := s.db.ExecContext(ctx, `UPDATE memories SET deleted_at = ? WHERE id = ?`, ts, p.ID)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row scanner) (model.Memory, error) {
	var m model.Memory
	var projectID, tags sql.NullString

	err := row.Scan(&m.ID, &m.Content, &m.Type, &m.Scope, &projectID, &tags, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return m, err
	}
	if projectID.Valid {
		m.ProjectID = &projectID.String
	}
	if tags.Valid {
		m.Tags = &tags.String
	}
	return m, nil
}
