package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toolshub/api/internal/model"
)

func TestSubmitCreatesPendingTool(t *testing.T) {
	e := newEnv()
	tool := e.submit(t, "alice@corp.example")

	assert.NotEmpty(t, tool.ID)
	assert.Equal(t, model.StatusPending, tool.Status)
	assert.Equal(t, "alice@corp.example", tool.CreatedBy)
	assert.Equal(t, "FX Rate Checker", tool.Title)

	// Admin inbox is told a submission is waiting.
	assert.Equal(t, []string{tool.ID}, e.dispatcher.pending)

	entries, err := e.store.LoadAudit(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.AuditActionSubmit, entries[0].Action)
	assert.Equal(t, tool.ID, entries[0].ToolID)
}

func TestSubmitByAdminStillPending(t *testing.T) {
	e := newEnv()
	r := e.router("admin@corp.example", true)

	w := do(t, r, http.MethodPost, "/api/tools", map[string]interface{}{
		"title": "Admin Tool",
		"url":   "https://tools.internal/admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, model.StatusPending, decodeTool(t, w).Tool.Status)
}

func TestSubmitRequiresTitleAndURL(t *testing.T) {
	e := newEnv()
	r := e.router("alice@corp.example", false)

	w := do(t, r, http.MethodPost, "/api/tools", map[string]interface{}{
		"title": "No URL",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/tools", map[string]interface{}{
		"url": "https://tools.internal/untitled",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListShowsOnlyPublishedToRegularUsers(t *testing.T) {
	e := newEnv()
	pending := e.submit(t, "alice@corp.example")

	admin := e.router("admin@corp.example", true)
	w := do(t, admin, http.MethodPut, "/api/tools/"+pending.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)

	other := e.submit(t, "alice@corp.example")

	var resp struct {
		Tools []model.Tool `json:"tools"`
	}

	// A stranger sees only the published one.
	w = do(t, e.router("bob@corp.example", false), http.MethodGet, "/api/tools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tools, 1)
	assert.Equal(t, pending.ID, resp.Tools[0].ID)

	// The owner sees both with ?mine=true.
	w = do(t, e.router("alice@corp.example", false), http.MethodGet, "/api/tools?mine=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Tools, 2)

	// Admins can filter by any status.
	w = do(t, admin, http.MethodGet, "/api/tools?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tools, 1)
	assert.Equal(t, other.ID, resp.Tools[0].ID)

	w = do(t, admin, http.MethodGet, "/api/tools?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHidesNonPublishedFromStrangers(t *testing.T) {
	e := newEnv()
	tool := e.submit(t, "alice@corp.example")

	w := do(t, e.router("bob@corp.example", false), http.MethodGet, "/api/tools/"+tool.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, e.router("alice@corp.example", false), http.MethodGet, "/api/tools/"+tool.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, e.router("admin@corp.example", true), http.MethodGet, "/api/tools/"+tool.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, e.router("admin@corp.example", true), http.MethodGet, "/api/tools/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVoteIncrementsCounters(t *testing.T) {
	e := newEnv()
	tool := e.submit(t, "alice@corp.example")
	r := e.router("bob@corp.example", false)

	w := do(t, r, http.MethodPut, "/api/tools/"+tool.ID+"/vote", map[string]string{"voteType": "up"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeTool(t, w).Tool.Upvotes)

	w = do(t, r, http.MethodPut, "/api/tools/"+tool.ID+"/vote", map[string]string{"voteType": "down"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeTool(t, w).Tool
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)

	w = do(t, r, http.MethodPut, "/api/tools/"+tool.ID+"/vote", map[string]string{"voteType": "sideways"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/api/tools/missing/vote", map[string]string{"voteType": "up"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateUpdatesRunningAverage(t *testing.T) {
	e := newEnv()
	tool := e.submit(t, "alice@corp.example")
	r := e.router("bob@corp.example", false)

	w := do(t, r, http.MethodPut, "/api/tools/"+tool.ID+"/rate", map[string]int{"rating": 4})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPut, "/api/tools/"+tool.ID+"/rate", map[string]int{"rating": 4})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPut, "/api/tools/"+tool.ID+"/rate", map[string]int{"rating": 5})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeTool(t, w).Tool
	assert.Equal(t, 3, got.RatingCount)
	assert.InDelta(t, 4.3, got.Rating, 0.001)

	w = do(t, r, http.MethodPut, "/api/tools/"+tool.ID+"/rate", map[string]int{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
