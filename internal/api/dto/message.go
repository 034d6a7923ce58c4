package dto

import "time"

// SendMessageReq 发送消息请求体。
// workspace_id / project_id / conversation_id / receiver_id 恰好传一个，
// parent_id 可选，表示话题内回复。
type SendMessageReq struct {
	WorkspaceID    uint64 `json:"workspace_id"`
	ProjectID      uint64 `json:"project_id"`
	ConversationID uint64 `json:"conversation_id"`
	ReceiverID     uint64 `json:"receiver_id"`
	ParentID       uint64 `json:"parent_id"`
	Content        string `json:"content" binding:"required"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID             uint64         `json:"id"`
	SenderID       uint64         `json:"sender_id"`
	WorkspaceID    uint64         `json:"workspace_id,omitempty"`
	ProjectID      uint64         `json:"project_id,omitempty"`
	ConversationID uint64         `json:"conversation_id,omitempty"`
	ReceiverID     uint64         `json:"receiver_id,omitempty"`
	ParentID       uint64         `json:"parent_id,omitempty"`
	Content        string         `json:"content"`
	Status         string         `json:"status"`
	IsPinned       bool           `json:"is_pinned"`
	Reactions      []*ReactionDTO `json:"reactions,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// HistoryQueryDTO 历史消息查询，before_id 为游标
type HistoryQueryDTO struct {
	WorkspaceID    uint64 `form:"workspace_id"`
	ProjectID      uint64 `form:"project_id"`
	ConversationID uint64 `form:"conversation_id"`
	PeerID         uint64 `form:"peer_id"`
	BeforeID       uint64 `form:"before_id"`
	PageSize       int    `form:"page_size"`
}

// MarkReadReq 已读上报。上下文四选一，message_id 为客户端看到的最后一条消息
type MarkReadReq struct {
	WorkspaceID uint64 `json:"workspace_id"`
	ProjectID   uint64 `json:"project_id"`
	PeerID      uint64 `json:"peer_id"`
	MessageID   uint64 `json:"message_id" binding:"required"`
}

// ReadReceiptDTO 已读回执推送
type ReadReceiptDTO struct {
	UserID      uint64    `json:"user_id"`
	WorkspaceID uint64    `json:"workspace_id,omitempty"`
	ProjectID   uint64    `json:"project_id,omitempty"`
	MessageID   uint64    `json:"message_id"`
	LastReadAt  time.Time `json:"last_read_at"`
}

// DeliveryReceiptDTO 送达回执推送
type DeliveryReceiptDTO struct {
	MessageID   uint64    `json:"message_id"`
	UserID      uint64    `json:"user_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// MessageStatusDTO 送达上报后的消息状态快照
type MessageStatusDTO struct {
	ID          uint64     `json:"id"`
	Status      string     `json:"status"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type ToggleReactionReq struct {
	Emoji string `json:"emoji" binding:"required"`
}

type ReactionDTO struct {
	MessageID uint64   `json:"message_id"`
	UserID    uint64   `json:"user_id"`
	Emoji     string   `json:"emoji"`
	Added     bool     `json:"added"`
	User      *UserDTO `json:"user,omitempty"`
}

// BroadcastEnvelope 推送到频道的统一信封
type BroadcastEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}
