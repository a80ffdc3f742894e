package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toolshub/api/internal/audit"
	"github.com/toolshub/api/internal/lifecycle"
	"github.com/toolshub/api/internal/middleware"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/notify"
	"github.com/toolshub/api/internal/store"
	"github.com/toolshub/api/internal/validator"
)

// ModerationHandler serves the lifecycle transitions: approve, reject,
// resubmit, publish toggling, generic edits and deletion.
type ModerationHandler struct {
	store      store.ToolStore
	recorder   *audit.Recorder
	dispatcher notify.Dispatcher
}

func NewModerationHandler(s store.ToolStore, recorder *audit.Recorder, dispatcher notify.Dispatcher) *ModerationHandler {
	return &ModerationHandler{
		store:      s,
		recorder:   recorder,
		dispatcher: dispatcher,
	}
}

type approveRequest struct {
	Updates *model.ToolEdits `json:"updates"`
}

// Approve publishes a pending tool, optionally merging admin edits first.
func (h *ModerationHandler) Approve(c *gin.Context) {
	actor := actorFrom(c)

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validator.ValidateEdits(req.Updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

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

	approved, err := lifecycle.Approve(tools[idx], actor, req.Updates, time.Now())
	if err != nil {
		middleware.RecordLifecycleTransition(model.AuditActionApprove, false)
		respondLifecycleError(c, err)
		return
	}
	tools[idx] = approved

	if err := h.store.Save(c.Request.Context(), tools); err != nil {
		respondStoreError(c, err)
		return
	}

	middleware.RecordLifecycleTransition(model.AuditActionApprove, true)
	h.recorder.Record(c.Request.Context(), model.AuditActionApprove, approved.ID, approved.Title, actor.Email, nil)
	h.dispatcher.NotifyApproved(&approved, actor.Email)

	c.JSON(http.StatusOK, gin.H{"success": true, "tool": approved})
}

type deleteRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

// Delete keeps the original overloaded wire contract: a body with a
// rejectionReason rejects the tool (record kept); no reason permanently
// removes it from the collection.
func (h *ModerationHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)

	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

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

	if req.RejectionReason != "" {
		rejected, err := lifecycle.Reject(tool, actor, req.RejectionReason, time.Now())
		if err != nil {
			middleware.RecordLifecycleTransition(model.AuditActionReject, false)
			respondLifecycleError(c, err)
			return
		}
		tools[idx] = rejected

		if err := h.store.Save(c.Request.Context(), tools); err != nil {
			respondStoreError(c, err)
			return
		}

		middleware.RecordLifecycleTransition(model.AuditActionReject, true)
		h.recorder.Record(c.Request.Context(), model.AuditActionReject, rejected.ID, rejected.Title, actor.Email,
			map[string]string{"reason": req.RejectionReason})
		h.dispatcher.NotifyRejected(&rejected, actor.Email, req.RejectionReason)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "tool rejected", "tool": rejected})
		return
	}

	// Hard delete. Destructive and irreversible.
	tools = append(tools[:idx], tools[idx+1:]...)
	if err := h.store.Save(c.Request.Context(), tools); err != nil {
		respondStoreError(c, err)
		return
	}

	middleware.RecordLifecycleTransition(model.AuditActionDelete, true)
	h.recorder.Record(c.Request.Context(), model.AuditActionDelete, tool.ID, tool.Title, actor.Email, nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "tool deleted"})
}

type resubmitRequest struct {
	Updates *model.ToolEdits `json:"updates"`
}

// Resubmit returns a rejected tool to the moderation queue. Owner only.
func (h *ModerationHandler) Resubmit(c *gin.Context) {
	actor := actorFrom(c)

	var req resubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validator.ValidateEdits(req.Updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

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

	resubmitted, err := lifecycle.Resubmit(tools[idx], actor, req.Updates, time.Now())
	if err != nil {
		middleware.RecordLifecycleTransition(model.AuditActionResubmit, false)
		respondLifecycleError(c, err)
		return
	}
	tools[idx] = resubmitted

	if err := h.store.Save(c.Request.Context(), tools); err != nil {
		respondStoreError(c, err)
		return
	}

	middleware.RecordLifecycleTransition(model.AuditActionResubmit, true)
	h.recorder.Record(c.Request.Context(), model.AuditActionResubmit, resubmitted.ID, resubmitted.Title, actor.Email, nil)
	h.dispatcher.NotifyPendingApproval(&resubmitted)

	c.JSON(http.StatusOK, gin.H{"success": true, "tool": resubmitted})
}

type publishRequest struct {
	Status                string `json:"status" binding:"required"`
	SendEmailNotification bool   `json:"sendEmailNotification"`
}

// Publish toggles published/unpublished. Unpublishing notifies the owner
// only when the caller asks for it.
func (h *ModerationHandler) Publish(c *gin.Context) {
	actor := actorFrom(c)

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be 'published' or 'unpublished'"})
		return
	}

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

	updated, err := lifecycle.SetPublishStatus(tools[idx], actor, req.Status, time.Now())
	if err != nil {
		middleware.RecordLifecycleTransition(model.AuditActionPublish, false)
		respondLifecycleError(c, err)
		return
	}
	tools[idx] = updated

	if err := h.store.Save(c.Request.Context(), tools); err != nil {
		respondStoreError(c, err)
		return
	}

	action := model.AuditActionPublish
	if req.Status == model.StatusUnpublished {
		action = model.AuditActionUnpublish
	}
	middleware.RecordLifecycleTransition(action, true)
	h.recorder.Record(c.Request.Context(), action, updated.ID, updated.Title, actor.Email, nil)

	if req.Status == model.StatusUnpublished && req.SendEmailNotification {
		h.dispatcher.NotifyUnpublished(&updated, actor.Email)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tool": updated})
}

// Update merges descriptive edits. Owner or admin; lifecycle state is
// untouchable from here.
func (h *ModerationHandler) Update(c *gin.Context) {
	actor := actorFrom(c)

	var edits model.ToolEdits
	if err := c.ShouldBindJSON(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validator.ValidateEdits(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

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

	updated, err := lifecycle.Update(tools[idx], actor, &edits, time.Now())
	if err != nil {
		middleware.RecordLifecycleTransition(model.AuditActionUpdate, false)
		respondLifecycleError(c, err)
		return
	}
	tools[idx] = updated

	if err := h.store.Save(c.Request.Context(), tools); err != nil {
		respondStoreError(c, err)
		return
	}

	middleware.RecordLifecycleTransition(model.AuditActionUpdate, true)
	h.recorder.Record(c.Request.Context(), model.AuditActionUpdate, updated.ID, updated.Title, actor.Email, nil)

	c.JSON(http.StatusOK, gin.H{"success": true, "tool": updated})
}
