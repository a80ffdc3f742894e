// Package validator checks submissions at the boundary before they enter
// the moderation queue.
package validator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/toolshub/api/internal/model"
)

// Categories accepted by the catalog.
var Categories = []string{
	"finance",
	"analytics",
	"productivity",
	"communication",
	"compliance",
	"engineering",
	"hr",
	"other",
}

const (
	maxTitleLen       = 120
	maxDescriptionLen = 300
	maxTags           = 12
)

// ValidateSubmission checks a new submission's required fields.
func ValidateSubmission(edits *model.ToolEdits) error {
	if edits == nil {
		return fmt.Errorf("a submission needs at least a title and url")
	}
	if edits.Title == nil || strings.TrimSpace(*edits.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if edits.URL == nil || strings.TrimSpace(*edits.URL) == "" {
		return fmt.Errorf("url is required")
	}
	return ValidateEdits(edits)
}

// ValidateEdits checks whichever fields a partial update sets.
func ValidateEdits(edits *model.ToolEdits) error {
	if edits == nil {
		return nil
	}
	if edits.Title != nil && len(*edits.Title) > maxTitleLen {
		return fmt.Errorf("title must be at most %d characters", maxTitleLen)
	}
	if edits.Description != nil && len(*edits.Description) > maxDescriptionLen {
		return fmt.Errorf("description must be at most %d characters", maxDescriptionLen)
	}
	if edits.URL != nil {
		if err := validateURL(*edits.URL); err != nil {
			return err
		}
	}
	if edits.VideoURL != nil && *edits.VideoURL != "" {
		if err := validateURL(*edits.VideoURL); err != nil {
			return err
		}
	}
	if edits.Category != nil && !ValidCategory(*edits.Category) {
		return fmt.Errorf("unknown category %q", *edits.Category)
	}
	if edits.Tags != nil && len(*edits.Tags) > maxTags {
		return fmt.Errorf("at most %d tags are allowed", maxTags)
	}
	return nil
}

// ValidCategory reports whether c is in the allow-list.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if strings.EqualFold(known, c) {
			return true
		}
	}
	return false
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https")
	}
	return nil
}
