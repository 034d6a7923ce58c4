package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationModel 站内通知模型
type NotificationModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 通知接收者ID
	ActorID    uint64             `bson:"actor_id" json:"actorId"`       // 动作发起者ID (系统通知可为0)
	Type       string             `bson:"type" json:"type"`              // 领域事件类型: task.assigned, comment.created ...
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 关联的目标ID (任务ID、评论ID、邀请ID)
	Content    string             `bson:"content" json:"content"`        // 通知文案预览
	Payload    map[string]any     `bson:"payload" json:"payload"`        // 额外元数据 (如任务标题快照)
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
