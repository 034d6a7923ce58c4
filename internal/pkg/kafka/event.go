package kafka

import "time"

// DomainEvent 业务域事件，统一写入同一个主题，按类型分发
type DomainEvent struct {
	Type        string            `json:"type"`
	ActorID     uint64            `json:"actor_id"`
	WorkspaceID uint64            `json:"workspace_id"`
	ProjectID   uint64            `json:"project_id,omitempty"`
	TargetID    uint64            `json:"target_id"`
	ReceiverIDs []uint64          `json:"receiver_ids,omitempty"`
	Content     string            `json:"content,omitempty"`
	Payload     map[string]string `json:"payload,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}
