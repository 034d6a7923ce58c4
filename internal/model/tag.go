package model

import "time"

// Tag 工作区标签
type Tag struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID uint64    `gorm:"index:idx_ws_tag,unique" json:"workspaceId"`
	Name        string    `gorm:"type:varchar(50);index:idx_ws_tag,unique" json:"name"`
	Color       string    `gorm:"type:varchar(16)" json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Tag) TableName() string { return "tags" }

// TaskTag 任务-标签关联表
type TaskTag struct {
	TaskID    uint64    `gorm:"primaryKey" json:"taskId"`
	TagID     uint64    `gorm:"primaryKey;index" json:"tagId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (TaskTag) TableName() string { return "task_tags" }
