// Package store persists the tool collection and the audit log. Each is a
// single JSON document under one key: reads load the whole document,
// writes replace it. There is no cross-caller locking; concurrent writers
// can lose updates, which the portal accepts (see DESIGN.md).
package store

import (
	"context"

	"github.com/toolshub/api/internal/model"
)

// ToolStore is the durable home of the full tool collection.
type ToolStore interface {
	// Load returns the collection, or an empty slice when nothing has
	// been stored yet.
	Load(ctx context.Context) ([]model.Tool, error)
	// Save overwrites the entire collection.
	Save(ctx context.Context, tools []model.Tool) error
}

// AuditStore holds the capped audit log as one document, newest first.
type AuditStore interface {
	LoadAudit(ctx context.Context) ([]model.AuditLogEntry, error)
	SaveAudit(ctx context.Context, entries []model.AuditLogEntry) error
}

// FindIndex returns the position of id in tools, or -1.
func FindIndex(tools []model.Tool, id string) int {
	for i := range tools {
		if tools[i].ID == id {
			return i
		}
	}
	return -1
}
