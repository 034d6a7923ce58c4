package model

import "time"

// MessageRead 按 (用户, 上下文) 维度的已读水位线，是 upsert 目标而非逐条记录。
// WorkspaceID / ProjectID / ReceiverID 三选一，各自与 UserID 构成唯一键。
type MessageRead struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64    `gorm:"not null;index:idx_read_ws,unique;index:idx_read_proj,unique;index:idx_read_recv,unique" json:"userId"`
	MessageID   uint64    `gorm:"not null" json:"messageId"`
	WorkspaceID *uint64   `gorm:"index:idx_read_ws,unique" json:"workspaceId"`
	ProjectID   *uint64   `gorm:"index:idx_read_proj,unique" json:"projectId"`
	ReceiverID  *uint64   `gorm:"index:idx_read_recv,unique" json:"receiverId"`
	LastReadAt  time.Time `gorm:"not null" json:"lastReadAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (MessageRead) TableName() string { return "message_reads" }
