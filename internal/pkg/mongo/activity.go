package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityModel 工作区动态流模型
type ActivityModel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID uint64             `bson:"workspace_id" json:"workspaceId"`
	ProjectID   uint64             `bson:"project_id,omitempty" json:"projectId"`
	ActorID     uint64             `bson:"actor_id" json:"actorId"`
	Action      string             `bson:"action" json:"action"`     // created, updated, completed, commented ...
	EntityType  string             `bson:"entity_type" json:"entityType"` // task, project, file ...
	EntityID    uint64             `bson:"entity_id" json:"entityId"`
	Summary     string             `bson:"summary" json:"summary"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
