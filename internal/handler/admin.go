package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toolshub/api/internal/audit"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/store"
	"gorm.io/gorm"
)

// AdminHandler serves the moderation dashboard: stats, the audit log and
// catalog export.
type AdminHandler struct {
	store    store.ToolStore
	db       *gorm.DB
	recorder *audit.Recorder
}

func NewAdminHandler(s store.ToolStore, db *gorm.DB, recorder *audit.Recorder) *AdminHandler {
	return &AdminHandler{store: s, db: db, recorder: recorder}
}

type DashboardStats struct {
	TotalTools      int             `json:"totalTools"`
	ToolsByStatus   map[string]int  `json:"toolsByStatus"`
	ToolsByCategory map[string]int  `json:"toolsByCategory"`
	TopViewedTools  []ToolViewCount `json:"topViewedTools"`
	PendingTools    []model.Tool    `json:"pendingTools"`
}

type ToolViewCount struct {
	ToolID string `json:"toolId"`
	Title  string `json:"title"`
	Count  int64  `json:"count"`
}

// GetStats returns dashboard statistics.
func (h *AdminHandler) GetStats(c *gin.Context) {
	tools, err := h.store.Load(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	stats := DashboardStats{
		TotalTools:      len(tools),
		ToolsByStatus:   make(map[string]int),
		ToolsByCategory: make(map[string]int),
		PendingTools:    make([]model.Tool, 0),
	}

	titles := make(map[string]string, len(tools))
	for _, t := range tools {
		stats.ToolsByStatus[t.Status]++
		if t.Category != "" {
			stats.ToolsByCategory[strings.ToLower(t.Category)]++
		}
		if t.Status == model.StatusPending {
			stats.PendingTools = append(stats.PendingTools, t)
		}
		titles[t.ID] = t.Title
	}

	// Top viewed tools (last 30 days)
	if h.db != nil {
		thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
		var counts []ToolViewCount
		h.db.Model(&model.ToolView{}).
			Select("tool_id, count(*) as count").
			Where("viewed_at > ?", thirtyDaysAgo).
			Group("tool_id").
			Order("count DESC").
			Limit(10).
			Scan(&counts)
		for i := range counts {
			counts[i].Title = titles[counts[i].ToolID]
		}
		stats.TopViewedTools = counts
	}

	c.JSON(http.StatusOK, stats)
}

// ListAudit returns audit entries, newest first, with pagination and an
// optional action filter.
func (h *AdminHandler) ListAudit(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	action := c.Query("action")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	entries, total, err := h.recorder.List(c.Request.Context(), action, (page-1)*limit, limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Export downloads the full catalog as JSON or CSV.
func (h *AdminHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	tools, err := h.store.Load(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}

	switch format {
	case "json":
		c.Header("Content-Disposition", "attachment; filename=tools.json")
		c.JSON(http.StatusOK, tools)
	case "csv":
		h.exportCSV(c, tools)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use json or csv"})
	}
}

func (h *AdminHandler) exportCSV(c *gin.Context, tools []model.Tool) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write([]string{"ID", "Title", "Status", "Category", "URL", "Created By", "Created At", "Upvotes", "Downvotes", "Rating", "Rating Count"})

	for _, t := range tools {
		writer.Write([]string{
			t.ID,
			t.Title,
			t.Status,
			t.Category,
			t.URL,
			t.CreatedBy,
			t.CreatedAt.Format(time.RFC3339),
			strconv.Itoa(t.Upvotes),
			strconv.Itoa(t.Downvotes),
			fmt.Sprintf("%.1f", t.Rating),
			strconv.Itoa(t.RatingCount),
		})
	}

	writer.Flush()
	c.Header("Content-Disposition", "attachment; filename=tools.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
