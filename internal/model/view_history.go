package model

import "time"

// ToolView is one catalog read, recorded for the admin dashboard.
type ToolView struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ToolID    string    `gorm:"not null;index:idx_tool_views_tool_viewed,priority:1;size:64" json:"toolId"`
	UserEmail string    `gorm:"size:255" json:"userEmail"`
	ViewedAt  time.Time `gorm:"index:idx_tool_views_tool_viewed,priority:2,sort:desc" json:"viewedAt"`
}

func (ToolView) TableName() string {
	return "tool_views"
}
