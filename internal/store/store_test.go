package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toolshub/api/internal/model"
)

func TestLoadEmptyCollection(t *testing.T) {
	s := NewMemoryStore()

	tools, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tools)
	assert.NotNil(t, tools)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	original := []model.Tool{
		{
			ID:        "a",
			Status:    model.StatusPublished,
			Title:     "FX Desk",
			URL:       "https://tools.internal/fx",
			Category:  "finance",
			Tags:      []string{"rates", "trading"},
			CreatedBy: "owner@example.com",
			CreatedAt: now,
			UpdatedAt: now,
			Upvotes:   3,
			Rating:    4.5,
		},
		{
			ID:              "b",
			Status:          model.StatusRejected,
			Title:           "Broken Bot",
			CreatedBy:       "other@example.com",
			RejectionReason: "dead link",
			RejectedAt:      &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}

	require.NoError(t, s.Save(ctx, original))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	// Save(Load()) is a no-op on contents.
	require.NoError(t, s.Save(ctx, loaded))
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, again)
}

func TestFindIndex(t *testing.T) {
	tools := []model.Tool{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, 1, FindIndex(tools, "b"))
	assert.Equal(t, -1, FindIndex(tools, "zz"))
	assert.Equal(t, -1, FindIndex(nil, "a"))
}

func TestAuditRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	entries, err := s.LoadAudit(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	in := []model.AuditLogEntry{{
		ID:          "e1",
		Action:      model.AuditActionApprove,
		ToolID:      "a",
		ToolTitle:   "FX Desk",
		PerformedBy: "admin@example.com",
		Timestamp:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, s.SaveAudit(ctx, in))

	out, err := s.LoadAudit(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
