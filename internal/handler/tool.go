package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/toolshub/api/internal/audit"
	"github.com/toolshub/api/internal/filter"
	"github.com/toolshub/api/internal/lifecycle"
	"github.com/toolshub/api/internal/middleware"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/notify"
	"github.com/toolshub/api/internal/store"
	"github.com/toolshub/api/internal/validator"
	"gorm.io/gorm"
)

// ToolHandler serves the catalog surface: listing, reading, submitting,
// voting and rating.
type ToolHandler struct {
	store      store.ToolStore
	db         *gorm.DB
	recorder   *audit.Recorder
	dispatcher notify.Dispatcher
}

func NewToolHandler(s store.ToolStore, db *gorm.DB, recorder *audit.Recorder, dispatcher notify.Dispatcher) *ToolHandler {
	return &ToolHandler{
		store:      s,
		db:         db,
		recorder:   recorder,
		dispatcher: dispatcher,
	}
}

// List returns catalog entries. Non-admins only ever see published tools,
// except for their own submissions when ?mine=true.
func (h *ToolHandler) List(c *gin.Context) {
	actor := actorFrom(c)

	tools, err := h.store.Load(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	q := filter.Query{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Text:     c.Query("q"),
	}

	if c.Query("mine") == "true" && actor.Email != "" {
		owned := make([]model.Tool, 0)
		for _, t := range tools {
			if actor.IsOwner(&t) {
				owned = append(owned, t)
			}
		}
		tools = owned
	} else if actor.Admin {
		if status := c.Query("status"); status != "" {
			if !model.ValidStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			q.Status = status
		}
	} else {
		q.Status = model.StatusPublished
	}

	c.JSON(http.StatusOK, gin.H{"tools": filter.Apply(tools, q)})
}

// Get returns one tool. Unpublished/pending/rejected entries are visible
// only to their owner and admins.
func (h *ToolHandler) Get(c *gin.Context) {
	actor := actorFrom(c)

	tools, err := h.store.Load(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	idx := store.FindIndex(tools, c.Param("id"))
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "tool not found"})
		return
	}
	tool := tools[idx]

	if tool.Status != model.StatusPublished && !actor.Admin && !actor.IsOwner(&tool) {
		c.JSON(http.StatusNotFound, gin.H{"error": "tool not found"})
		return
	}

	go h.recordView(tool.ID, actor.Email)

	c.JSON(http.StatusOK, gin.H{"tool": tool})
}

// Submit creates a new pending tool. Everyone passes moderation,
// admins included.
func (h *ToolHandler) Submit(c *gin.Context) {
	actor := actorFrom(c)

	var edits model.ToolEdits
	if err := c.ShouldBindJSON(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := validator.ValidateSubmission(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tools, err := h.store.Load(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	tool := lifecycle.New(uuid.NewString(), &edits, actor, time.Now())
	tools = append(tools, tool)

	if err := h.store.Save(c.Request.Context(), tools); err != nil {
		respondStoreError(c, err)
		return
	}

	middleware.RecordLifecycleTransition(model.AuditActionSubmit, true)
	h.recorder.Record(c.Request.Context(), model.AuditActionSubmit, tool.ID, tool.Title, actor.Email, nil)
	h.dispatcher.NotifyPendingApproval(&tool)

	c.JSON(http.StatusCreated, gin.H{"success": true, "tool": tool})
}

type voteRequest struct {
	VoteType string `json:"voteType" binding:"required"`
}

// Vote increments one engagement counter, independent of lifecycle state.
func (h *ToolHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voteType is required"})
		return
	}

	h.mutate(c, func(t model.Tool) (model.Tool, error) {
		return lifecycle.Vote(t, req.VoteType)
	})
}

type rateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Rate folds a 1-5 score into the running average.
func (h *ToolHandler) Rate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}

	h.mutate(c, func(t model.Tool) (model.Tool, error) {
		return lifecycle.Rate(t, req.Rating)
	})
}

// mutate runs the whole-document read-modify-write cycle shared by the
// engagement endpoints.
func (h *ToolHandler) mutate(c *gin.Context, op func(model.Tool) (model.Tool, error)) {
	tools, err := h.store.Load(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	idx := store.FindIndex(tools, c.Param("id"))
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "tool not found"})
		return
	}

	updated, err := op(tools[idx])
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	tools[idx] = updated

	if err := h.store.Save(c.Request.Context(), tools); err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tool": updated})
}

func (h *ToolHandler) recordView(toolID, email string) {
	if h.db == nil {
		return
	}
	view := model.ToolView{ToolID: toolID, UserEmail: email, ViewedAt: time.Now()}
	if err := h.db.Create(&view).Error; err != nil {
		log.Printf("Warning: failed to record tool view: %v", err)
	}
}
