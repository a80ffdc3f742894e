package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/toolshub/api/internal/client"
	"github.com/toolshub/api/internal/llm"
	"github.com/toolshub/api/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AIHandler serves metadata generation and screenshot capture, both of
// which assist submitters without touching lifecycle state.
type AIHandler struct {
	llm        *llm.Client
	screenshot *client.ScreenshotClient
	db         *gorm.DB
}

func NewAIHandler(llmClient *llm.Client, screenshotClient *client.ScreenshotClient, db *gorm.DB) *AIHandler {
	return &AIHandler{
		llm:        llmClient,
		screenshot: screenshotClient,
		db:         db,
	}
}

type generateRequest struct {
	URL   string `json:"url" binding:"required"`
	Hints string `json:"hints"`
}

// Generate produces draft catalog metadata for a tool URL.
func (h *AIHandler) Generate(c *gin.Context) {
	if h.llm == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metadata generation is not configured"})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	meta, raw, err := h.llm.GenerateMetadata(c.Request.Context(), req.URL, req.Hints)
	if err != nil {
		log.Printf("Metadata generation failed for %s: %v", req.URL, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "metadata generation failed"})
		return
	}

	h.recordGeneration(c, req.URL, raw, meta)

	c.JSON(http.StatusOK, gin.H{"success": true, "metadata": meta})
}

type screenshotRequest struct {
	URL string `json:"url" binding:"required"`
}

// Screenshot captures a thumbnail for a tool URL.
func (h *AIHandler) Screenshot(c *gin.Context) {
	var req screenshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	imageURL, err := h.screenshot.Capture(c.Request.Context(), req.URL)
	if err != nil {
		log.Printf("Screenshot capture failed for %s: %v", req.URL, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "screenshot capture failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "thumbnailUrl": imageURL})
}

func (h *AIHandler) recordGeneration(c *gin.Context, toolURL, raw string, meta *llm.GeneratedMetadata) {
	if h.db == nil {
		return
	}

	email := ""
	if v, exists := c.Get("userEmail"); exists {
		email = v.(string)
	}

	record := model.AIGeneration{
		ID:          uuid.NewString(),
		ToolURL:     toolURL,
		RequestedBy: email,
		Model:       h.llm.Model(),
		Payload:     datatypes.JSON(raw),
		Tags:        meta.Tags,
		CreatedAt:   time.Now(),
	}
	if err := h.db.Create(&record).Error; err != nil {
		log.Printf("Warning: failed to record AI generation: %v", err)
	}
}
