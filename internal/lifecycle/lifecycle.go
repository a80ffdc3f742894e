// Package lifecycle implements the moderation state machine for catalog
// tools. Every operation is a pure function over a tool snapshot: it
// validates the (action, actor, record) triple and returns the next
// snapshot, leaving persistence and side effects to the caller.
package lifecycle

import (
	"math"
	"strings"
	"time"

	"github.com/toolshub/api/internal/model"
)

// Actor is the identity performing a lifecycle operation.
type Actor struct {
	Email string
	Admin bool
}

// CanApprove reports whether the actor holds the approval capability.
func (a Actor) CanApprove() bool { return a.Admin }

// CanPublish reports whether the actor may toggle published/unpublished.
func (a Actor) CanPublish() bool { return a.Admin }

// IsOwner reports whether the actor is the recorded submitter.
func (a Actor) IsOwner(t *model.Tool) bool {
	return strings.EqualFold(a.Email, t.CreatedBy)
}

// Vote directions accepted by Vote.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// New builds a fresh submission. Every submission starts as pending,
// including those made by admins.
func New(id string, edits *model.ToolEdits, actor Actor, now time.Time) model.Tool {
	t := model.Tool{
		ID:        id,
		Status:    model.StatusPending,
		CreatedBy: actor.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	edits.Apply(&t)
	return t
}

// Approve merges optional edits and transitions the tool to published,
// stamping the approver. Admin capability required.
func Approve(t model.Tool, actor Actor, edits *model.ToolEdits, now time.Time) (model.Tool, error) {
	if !actor.CanApprove() {
		return t, ErrForbidden
	}

	edits.Apply(&t)
	t.Status = model.StatusPublished
	t.ApprovedBy = actor.Email
	t.ApprovedAt = &now
	t.UpdatedAt = now
	clearRejection(&t)
	return t, nil
}

// Reject marks the tool rejected with a reason. The record stays in the
// collection; a reason-less rejection is a hard delete and is handled by
// the caller, not here.
func Reject(t model.Tool, actor Actor, reason string, now time.Time) (model.Tool, error) {
	if !actor.CanApprove() {
		return t, ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return t, ErrInvalidInput
	}

	t.Status = model.StatusRejected
	t.RejectedBy = actor.Email
	t.RejectedAt = &now
	t.RejectionReason = reason
	t.UpdatedAt = now
	return t, nil
}

// Resubmit returns a rejected tool to the moderation queue. Owner only;
// admins do not get a bypass here. Rejection fields are cleared so the
// record carries no stale reason back into pending.
func Resubmit(t model.Tool, actor Actor, edits *model.ToolEdits, now time.Time) (model.Tool, error) {
	if t.Status != model.StatusRejected {
		return t, ErrInvalidState
	}
	if !actor.IsOwner(&t) {
		return t, ErrForbidden
	}

	edits.Apply(&t)
	t.Status = model.StatusPending
	t.ResubmittedAt = &now
	t.UpdatedAt = now
	clearRejection(&t)
	return t, nil
}

// SetPublishStatus toggles a tool between published and unpublished.
// Transitioning to published stamps approval metadata; unpublishing leaves
// the previous approval stamps in place. Rejection fields are cleared for
// both targets, since neither resulting status is rejected.
func SetPublishStatus(t model.Tool, actor Actor, target string, now time.Time) (model.Tool, error) {
	if target != model.StatusPublished && target != model.StatusUnpublished {
		return t, ErrInvalidInput
	}
	if !actor.CanPublish() {
		return t, ErrForbidden
	}

	t.Status = target
	if target == model.StatusPublished {
		t.ApprovedBy = actor.Email
		t.ApprovedAt = &now
	}
	clearRejection(&t)
	t.UpdatedAt = now
	return t, nil
}

// Update merges descriptive edits without touching lifecycle state.
// Owner or admin only.
func Update(t model.Tool, actor Actor, edits *model.ToolEdits, now time.Time) (model.Tool, error) {
	if !actor.Admin && !actor.IsOwner(&t) {
		return t, ErrForbidden
	}

	edits.Apply(&t)
	t.UpdatedAt = now
	return t, nil
}

// Vote increments exactly one engagement counter. Independent of status
// and open to any caller.
func Vote(t model.Tool, direction string) (model.Tool, error) {
	switch direction {
	case VoteUp:
		t.Upvotes++
	case VoteDown:
		t.Downvotes++
	default:
		return t, ErrInvalidInput
	}
	return t, nil
}

// Rate folds a 1-5 score into the running average, rounded to one decimal.
func Rate(t model.Tool, score int) (model.Tool, error) {
	if score < 1 || score > 5 {
		return t, ErrInvalidInput
	}

	total := t.Rating*float64(t.RatingCount) + float64(score)
	t.RatingCount++
	t.Rating = math.Round(total/float64(t.RatingCount)*10) / 10
	return t, nil
}

func clearRejection(t *model.Tool) {
	t.RejectedBy = ""
	t.RejectedAt = nil
	t.RejectionReason = ""
}
