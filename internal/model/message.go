package model

import "time"

// 消息投递状态，只允许单向推进: SENT -> DELIVERED -> READ
const (
	MessageStatusSent      = "SENT"
	MessageStatusDelivered = "DELIVERED"
	MessageStatusRead      = "READ"
)

// Message 消息主表。
// WorkspaceID / ProjectID / ConversationID / ReceiverID 四选一作为归属上下文，
// ParentID 在任意上下文之上叠加话题回复关系。
type Message struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID       uint64     `gorm:"not null;index" json:"senderId"`
	ReceiverID     *uint64    `gorm:"index" json:"receiverId"`
	WorkspaceID    *uint64    `gorm:"index" json:"workspaceId"`
	ProjectID      *uint64    `gorm:"index" json:"projectId"`
	ConversationID *uint64    `gorm:"index" json:"conversationId"`
	ParentID       *uint64    `gorm:"index" json:"parentId"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	Status         string     `gorm:"type:varchar(16);not null;default:SENT" json:"status"`
	IsPinned       bool       `gorm:"not null;default:0" json:"isPinned"`
	DeliveredAt    *time.Time `json:"deliveredAt"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Message) TableName() string { return "messages" }
