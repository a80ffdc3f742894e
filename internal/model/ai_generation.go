package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// AIGeneration records one metadata-generation call so admins can review
// what the model produced for a given URL.
type AIGeneration struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	ToolURL     string         `gorm:"not null;size:2048" json:"toolUrl"`
	RequestedBy string         `gorm:"not null;index;size:255" json:"requestedBy"`
	Model       string         `gorm:"size:100" json:"model"`
	Payload     datatypes.JSON `json:"payload"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (AIGeneration) TableName() string {
	return "ai_generations"
}
