package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepo interface {
	SaveActivity(ctx context.Context, a *ActivityModel) error
	GetWorkspaceActivities(ctx context.Context, workspaceID uint64, limit int64) ([]*ActivityModel, error)
	GetProjectActivities(ctx context.Context, projectID uint64, limit int64) ([]*ActivityModel, error)
}

type activityRepoImpl struct {
	col *mongo.Collection
}

func NewActivityRepo(db *mongo.Database) ActivityRepo {
	return &activityRepoImpl{
		col: db.Collection("activities"),
	}
}

// SaveActivity 记录一条动态
func (s *activityRepoImpl) SaveActivity(ctx context.Context, a *ActivityModel) error {
	_, err := s.col.InsertOne(ctx, a)
	return err
}

// GetWorkspaceActivities 工作区最近动态 (仪表盘)
func (s *activityRepoImpl) GetWorkspaceActivities(ctx context.Context, workspaceID uint64, limit int64) ([]*ActivityModel, error) {
	return s.find(ctx, bson.M{"workspace_id": workspaceID}, limit)
}

// GetProjectActivities 项目最近动态
func (s *activityRepoImpl) GetProjectActivities(ctx context.Context, projectID uint64, limit int64) ([]*ActivityModel, error) {
	return s.find(ctx, bson.M{"project_id": projectID}, limit)
}

func (s *activityRepoImpl) find(ctx context.Context, filter bson.M, limit int64) ([]*ActivityModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*ActivityModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
