// Package store provides the memory storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/memory-insights/internal/model"
)

var (
	ErrNotFound     = errors.New("memory not found")
	ErrInvalidType  = errors.New("invalid memory type")
	ErrInvalidScope = errors.New("invalid memory scope")
	ErrEmptyContent = errors.New("content is required")
)

// PutParams holds parameters for storing a memory.
type PutParams struct {
	Content   string
	Type      string
	Scope     string
	ProjectID string
	Tags      []string
}

// UpdateParams holds parameters for changing a memory. Nil fields are left as is.
type UpdateParams struct {
	ID      string
	Content *string
	Type    *string
	Tags    []string
}

// ListParams holds parameters for listing memories.
type ListParams struct {
	Type      string
	ProjectID string
	Tags      []string
	Limit     int
}

// SnapshotParams selects the memories handed to the insights engine.
type SnapshotParams struct {
	// ProjectID limits the snapshot to one project plus global memories.
	ProjectID string
}

// RmParams holds parameters for deleting a memory.
type RmParams struct {
	ID   string
	Hard bool
}

// Store defines the memory storage interface.
type Store interface {
	// Put stores a new memory. Returns the created memory.
	Put(ctx context.Context, p PutParams) (*model.Memory, error)

	// Update changes an existing memory and bumps its updated_at.
	Update(ctx context.Context, p UpdateParams) (*model.Memory, error)

	// Get retrieves a live memory by id.
	Get(ctx context.Context, id string) (*model.Memory, error)

	// List lists memories matching the given filters, most recently updated first.
	List(ctx context.Context, p ListParams) ([]model.Memory, error)

	// Snapshot returns every live memory in a stable order.
	Snapshot(ctx context.Context, p SnapshotParams) ([]model.Memory, error)

	// Rm archives (soft-deletes) or hard-deletes a memory.
	Rm(ctx context.Context, p RmParams) error

	// Link creates or removes a relation between two memories.
	Link(ctx context.Context, p LinkParams) (*Link, error)

	// Close closes the store.
	Close() error
}
