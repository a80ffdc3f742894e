// Package audit appends lifecycle facts to a capped, newest-first log.
// Recording is best-effort: a store failure is logged and swallowed so it
// can never block the transition that triggered it.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/store"
)

// MaxEntries caps the log; older entries are truncated away.
const MaxEntries = 1000

type Recorder struct {
	store store.AuditStore
}

func NewRecorder(s store.AuditStore) *Recorder {
	return &Recorder{store: s}
}

// Record prepends one entry and truncates the log to MaxEntries.
func (r *Recorder) Record(ctx context.Context, action, toolID, toolTitle, performedBy string, metadata map[string]string) {
	entry := model.AuditLogEntry{
		ID:          uuid.NewString(),
		Action:      action,
		ToolID:      toolID,
		ToolTitle:   toolTitle,
		PerformedBy: performedBy,
		Metadata:    metadata,
		Timestamp:   time.Now(),
	}

	entries, err := r.store.LoadAudit(ctx)
	if err != nil {
		log.Printf("Warning: failed to load audit log, dropping entry for %s: %v", action, err)
		return
	}

	entries = append([]model.AuditLogEntry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	if err := r.store.SaveAudit(ctx, entries); err != nil {
		log.Printf("Warning: failed to save audit log entry for %s: %v", action, err)
	}
}

// List returns a page of entries, newest first. An empty action matches all.
func (r *Recorder) List(ctx context.Context, action string, offset, limit int) ([]model.AuditLogEntry, int, error) {
	entries, err := r.store.LoadAudit(ctx)
	if err != nil {
		return nil, 0, err
	}

	if action != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Action == action {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	total := len(entries)
	if offset >= total {
		return []model.AuditLogEntry{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return entries[offset:end], total, nil
}
