package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toolshub/api/internal/model"
)

var (
	admin = Actor{Email: "admin@example.com", Admin: true}
	owner = Actor{Email: "owner@example.com"}
	other = Actor{Email: "other@example.com"}
)

func pendingTool() model.Tool {
	return New("tool-1", &model.ToolEdits{
		Title:    strPtr("Rate Checker"),
		URL:      strPtr("https://tools.internal/rates"),
		Category: strPtr("finance"),
	}, owner, time.Now())
}

func strPtr(s string) *string { return &s }

func TestNewSubmissionIsPending(t *testing.T) {
	tool := pendingTool()
	assert.Equal(t, model.StatusPending, tool.Status)
	assert.Equal(t, owner.Email, tool.CreatedBy)

	// Admin submissions pass moderation like everyone else's.
	adminTool := New("tool-2", nil, admin, time.Now())
	assert.Equal(t, model.StatusPending, adminTool.Status)
}

func TestApprove(t *testing.T) {
	tool := pendingTool()
	now := time.Now()

	approved, err := Approve(tool, admin, &model.ToolEdits{Title: strPtr("New Title")}, now)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, approved.Status)
	assert.Equal(t, "New Title", approved.Title)
	assert.Equal(t, admin.Email, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, now, *approved.ApprovedAt)
	assert.Equal(t, "tool-1", approved.ID)
}

func TestApproveRequiresAdmin(t *testing.T) {
	_, err := Approve(pendingTool(), owner, nil, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRejectSetsReason(t *testing.T) {
	tool := pendingTool()

	rejected, err := Reject(tool, admin, "bad URL", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Equal(t, "bad URL", rejected.RejectionReason)
	assert.Equal(t, admin.Email, rejected.RejectedBy)
	assert.NotNil(t, rejected.RejectedAt)
}

func TestRejectRequiresReason(t *testing.T) {
	_, err := Reject(pendingTool(), admin, "  ", time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRejectRequiresAdmin(t *testing.T) {
	_, err := Reject(pendingTool(), other, "nope", time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestResubmitClearsRejection(t *testing.T) {
	tool, err := Reject(pendingTool(), admin, "bad URL", time.Now())
	require.NoError(t, err)

	resubmitted, err := Resubmit(tool, owner, &model.ToolEdits{URL: strPtr("https://tools.internal/rates-v2")}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, resubmitted.Status)
	assert.Empty(t, resubmitted.RejectionReason)
	assert.Empty(t, resubmitted.RejectedBy)
	assert.Nil(t, resubmitted.RejectedAt)
	assert.NotNil(t, resubmitted.ResubmittedAt)
	assert.Equal(t, "https://tools.internal/rates-v2", resubmitted.URL)
}

func TestResubmitRequiresRejectedState(t *testing.T) {
	_, err := Resubmit(pendingTool(), owner, nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestResubmitOwnerOnly(t *testing.T) {
	tool, err := Reject(pendingTool(), admin, "bad URL", time.Now())
	require.NoError(t, err)

	// No admin bypass on resubmit.
	_, err = Resubmit(tool, admin, nil, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = Resubmit(tool, other, nil, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPublishToggle(t *testing.T) {
	tool, err := Approve(pendingTool(), admin, nil, time.Now())
	require.NoError(t, err)

	unpublished, err := SetPublishStatus(tool, admin, model.StatusUnpublished, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnpublished, unpublished.Status)
	// Approval metadata deliberately survives an unpublish.
	assert.Equal(t, admin.Email, unpublished.ApprovedBy)
	assert.NotNil(t, unpublished.ApprovedAt)

	republished, err := SetPublishStatus(unpublished, admin, model.StatusPublished, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, republished.Status)
}

func TestUnpublishClearsRejectionFields(t *testing.T) {
	rejected, err := Reject(pendingTool(), admin, "bad URL", time.Now())
	require.NoError(t, err)

	unpublished, err := SetPublishStatus(rejected, admin, model.StatusUnpublished, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnpublished, unpublished.Status)
	assert.Empty(t, unpublished.RejectionReason)
	assert.Empty(t, unpublished.RejectedBy)
	assert.Nil(t, unpublished.RejectedAt)
}

func TestPublishValidatesStatusLiteral(t *testing.T) {
	_, err := SetPublishStatus(pendingTool(), admin, "archived", time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SetPublishStatus(pendingTool(), admin, model.StatusPending, time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPublishRequiresAdmin(t *testing.T) {
	_, err := SetPublishStatus(pendingTool(), owner, model.StatusPublished, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateGating(t *testing.T) {
	tool := pendingTool()

	_, err := Update(tool, other, &model.ToolEdits{Title: strPtr("x")}, time.Now())
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := Update(tool, owner, &model.ToolEdits{Description: strPtr("checks FX rates")}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "checks FX rates", updated.Description)
	// Update never moves lifecycle state.
	assert.Equal(t, model.StatusPending, updated.Status)
}

func TestVote(t *testing.T) {
	tool := pendingTool()

	for _, status := range []string{model.StatusPending, model.StatusPublished, model.StatusUnpublished, model.StatusRejected} {
		tool.Status = status
		up, err := Vote(tool, VoteUp)
		require.NoError(t, err)
		assert.Equal(t, tool.Upvotes+1, up.Upvotes)
		assert.Equal(t, tool.Downvotes, up.Downvotes)

		down, err := Vote(tool, VoteDown)
		require.NoError(t, err)
		assert.Equal(t, tool.Downvotes+1, down.Downvotes)
		assert.Equal(t, tool.Upvotes, down.Upvotes)
	}

	_, err := Vote(tool, "sideways")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRateRunningAverage(t *testing.T) {
	tool := pendingTool()
	tool.Rating = 4.0
	tool.RatingCount = 2

	rated, err := Rate(tool, 5)
	require.NoError(t, err)
	assert.Equal(t, 4.3, rated.Rating)
	assert.Equal(t, 3, rated.RatingCount)
}

func TestRateFirstVote(t *testing.T) {
	rated, err := Rate(pendingTool(), 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rated.Rating)
	assert.Equal(t, 1, rated.RatingCount)
}

func TestRateRange(t *testing.T) {
	for _, score := range []int{0, 6, -1} {
		_, err := Rate(pendingTool(), score)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestRejectResubmitScenario(t *testing.T) {
	tool := pendingTool()

	rejected, err := Reject(tool, admin, "bad URL", time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Equal(t, "bad URL", rejected.RejectionReason)

	resubmitted, err := Resubmit(rejected, owner, &model.ToolEdits{URL: strPtr("https://tools.internal/rates-fixed")}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, resubmitted.Status)
	assert.Empty(t, resubmitted.RejectionReason)
	assert.Equal(t, "https://tools.internal/rates-fixed", resubmitted.URL)
}

func TestStatusAlwaysValid(t *testing.T) {
	tool := pendingTool()
	now := time.Now()

	approved, _ := Approve(tool, admin, nil, now)
	rejected, _ := Reject(tool, admin, "r", now)
	resubmitted, _ := Resubmit(rejected, owner, nil, now)
	unpublished, _ := SetPublishStatus(approved, admin, model.StatusUnpublished, now)

	for _, tt := range []model.Tool{tool, approved, rejected, resubmitted, unpublished} {
		assert.True(t, model.ValidStatus(tt.Status), "status %q", tt.Status)
	}
}
