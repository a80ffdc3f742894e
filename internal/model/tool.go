package model

import "time"

// Tool statuses. A tool is always in exactly one of these; hard-deleted
// tools are simply absent from the collection.
const (
	StatusPending     = "pending"
	StatusPublished   = "published"
	StatusUnpublished = "unpublished"
	StatusRejected    = "rejected"
)

// ValidStatus reports whether s is one of the four lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPublished, StatusUnpublished, StatusRejected:
		return true
	}
	return false
}

// SystemSubmitter marks catalog entries seeded by operations rather than a
// real employee. Such entries never receive notification emails.
const SystemSubmitter = "system@toolshub.internal"

// Tool is a cataloged internal application moderated through the lifecycle.
// The whole collection is persisted as a single JSON document, so every
// field lives on this one struct.
type Tool struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	Title           string   `json:"title"`
	Description     string   `json:"description"`
	FullDescription string   `json:"fullDescription,omitempty"`
	URL             string   `json:"url"`
	Category        string   `json:"category"`
	ThumbnailURL    string   `json:"thumbnailUrl,omitempty"`
	VideoURL        string   `json:"videoUrl,omitempty"`
	Features        []string `json:"features,omitempty"`
	Tags            []string `json:"tags,omitempty"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`

	RejectedBy      string     `json:"rejectedBy,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	ResubmittedAt   *time.Time `json:"resubmittedAt,omitempty"`

	ThumbnailCapturedAt *time.Time `json:"thumbnailCapturedAt,omitempty"`

	Upvotes     int     `json:"upvotes"`
	Downvotes   int     `json:"downvotes"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
}

// ToolEdits is the allow-listed partial update accepted by submit edits,
// approve-with-edits, resubmit and the generic update endpoint. Lifecycle
// stamps, status and engagement counters are deliberately not reachable
// through it.
type ToolEdits struct {
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	FullDescription *string   `json:"fullDescription,omitempty"`
	URL             *string   `json:"url,omitempty"`
	Category        *string   `json:"category,omitempty"`
	ThumbnailURL    *string   `json:"thumbnailUrl,omitempty"`
	VideoURL        *string   `json:"videoUrl,omitempty"`
	Features        *[]string `json:"features,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
}

// Apply merges the set fields of e into t. Unset (nil) fields are left alone.
func (e *ToolEdits) Apply(t *Tool) {
	if e == nil {
		return
	}
	if e.Title != nil {
		t.Title = *e.Title
	}
	if e.Description != nil {
		t.Description = *e.Description
	}
	if e.FullDescription != nil {
		t.FullDescription = *e.FullDescription
	}
	if e.URL != nil {
		t.URL = *e.URL
	}
	if e.Category != nil {
		t.Category = *e.Category
	}
	if e.ThumbnailURL != nil {
		t.ThumbnailURL = *e.ThumbnailURL
	}
	if e.VideoURL != nil {
		t.VideoURL = *e.VideoURL
	}
	if e.Features != nil {
		t.Features = *e.Features
	}
	if e.Tags != nil {
		t.Tags = *e.Tags
	}
}
