package model

import "time"

// Conversation 会话主表 (工作区内的群聊或点对点会话)
type Conversation struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID uint64    `gorm:"not null;index" json:"workspaceId"`
	Name        string    `gorm:"type:varchar(255)" json:"name"`
	IsGroup     bool      `gorm:"not null;default:1" json:"isGroup"`
	CreatorID   uint64    `gorm:"not null" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationMember 会话成员表
type ConversationMember struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"index:idx_conv_user,unique" json:"conversationId"`
	UserID         uint64    `gorm:"index:idx_conv_user,unique;index" json:"userId"`
	JoinedAt       time.Time `json:"joinedAt"`

	Conversation Conversation `gorm:"foreignKey:ConversationID;references:ID" json:"conversation"`
}

func (ConversationMember) TableName() string { return "conversation_members" }
