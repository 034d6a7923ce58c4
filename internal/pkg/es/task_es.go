package es

import "time"

// TaskES 写入任务索引的完整文档
type TaskES struct {
	ID           uint64    `json:"id"`
	WorkspaceID  uint64    `json:"workspace_id"`
	ProjectID    uint64    `json:"project_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	AssigneeID   uint64    `json:"assignee_id"`
	AssigneeName string    `json:"assignee_name"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Sort []interface{} `json:"-"`
}

// MessageES 写入消息索引的文档，只存可检索字段
type MessageES struct {
	ID             uint64    `json:"id"`
	WorkspaceID    uint64    `json:"workspace_id"`
	ProjectID      uint64    `json:"project_id,omitempty"`
	ConversationID uint64    `json:"conversation_id,omitempty"`
	SenderID       uint64    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`

	Sort []interface{} `json:"-"`
}
