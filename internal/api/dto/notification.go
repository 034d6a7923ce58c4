package dto

// NotificationDTO 站内通知返回对象
type NotificationDTO struct {
	ID        string         `json:"id"`
	ActorID   uint64         `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	AvatarURL string         `json:"avatar_url"`
	Type      string         `json:"type"`
	TargetID  uint64         `json:"target_id"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload"`
	IsRead    bool           `json:"is_read"`
	CreatedAt string         `json:"created_at"`
}

// NotificationUnreadDTO 未读数返回
type NotificationUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// ActivityDTO 工作区动态流条目
type ActivityDTO struct {
	ID         string `json:"id"`
	ActorID    uint64 `json:"actor_id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   uint64 `json:"entity_id"`
	Summary    string `json:"summary"`
	CreatedAt  string `json:"created_at"`
}
