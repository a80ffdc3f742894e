package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/toolshub/api/internal/audit"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/notify"
	"github.com/toolshub/api/internal/store"
)

// fakeDispatcher records notification calls instead of sending email.
type fakeDispatcher struct {
	mu          sync.Mutex
	pending     []string // tool ids
	approved    []string
	rejected    []string
	unpublished []string
	otps        []string // emails
}

var _ notify.Dispatcher = (*fakeDispatcher)(nil)

func (f *fakeDispatcher) NotifyPendingApproval(tool *model.Tool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, tool.ID)
}

func (f *fakeDispatcher) NotifyApproved(tool *model.Tool, approver string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.approved = append(f.approved, tool.ID)
}

func (f *fakeDispatcher) NotifyRejected(tool *model.Tool, rejecter, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected = append(f.rejected, tool.ID)
}

func (f *fakeDispatcher) NotifyUnpublished(tool *model.Tool, actor string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpublished = append(f.unpublished, tool.ID)
}

func (f *fakeDispatcher) SendOTP(email, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps = append(f.otps, email)
}

// identity injects auth context values the way the JWT middleware would.
func identity(email string, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if email != "" {
			c.Set("userEmail", email)
			c.Set("isAdmin", admin)
		}
		c.Next()
	}
}

type env struct {
	store      *store.MemoryStore
	dispatcher *fakeDispatcher
	tools      *ToolHandler
	moderation *ModerationHandler
	admin      *AdminHandler
}

func newEnv() *env {
	s := store.NewMemoryStore()
	d := &fakeDispatcher{}
	recorder := audit.NewRecorder(s)
	return &env{
		store:      s,
		dispatcher: d,
		tools:      NewToolHandler(s, nil, recorder, d),
		moderation: NewModerationHandler(s, recorder, d),
		admin:      NewAdminHandler(s, nil, recorder),
	}
}

// router wires the same paths as cmd/server with a fixed identity.
func (e *env) router(email string, admin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(identity(email, admin))

	api := r.Group("/api")
	api.GET("/tools", e.tools.List)
	api.GET("/tools/:id", e.tools.Get)
	api.POST("/tools", e.tools.Submit)
	api.PUT("/tools/:id/vote", e.tools.Vote)
	api.PUT("/tools/:id/rate", e.tools.Rate)
	api.PUT("/tools/:id", e.moderation.Update)
	api.PUT("/tools/:id/resubmit", e.moderation.Resubmit)
	api.PUT("/tools/:id/approve", e.moderation.Approve)
	api.PUT("/tools/:id/publish", e.moderation.Publish)
	api.DELETE("/tools/:id", e.moderation.Delete)
	api.GET("/admin/stats", e.admin.GetStats)
	api.GET("/admin/audit", e.admin.ListAudit)
	api.GET("/admin/export", e.admin.Export)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type toolResponse struct {
	Success bool       `json:"success"`
	Tool    model.Tool `json:"tool"`
	Message string     `json:"message"`
	Error   string     `json:"error"`
}

func decodeTool(t *testing.T, w *httptest.ResponseRecorder) toolResponse {
	t.Helper()
	var resp toolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// submit creates a pending tool as owner and returns it.
func (e *env) submit(t *testing.T, owner string) model.Tool {
	t.Helper()
	r := e.router(owner, false)
	w := do(t, r, http.MethodPost, "/api/tools", map[string]interface{}{
		"title":    "FX Rate Checker",
		"url":      "https://tools.internal/fx",
		"category": "finance",
		"tags":     []string{"rates"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeTool(t, w).Tool
}
