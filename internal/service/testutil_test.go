package service

import (
	"Teamflow/internal/api/config"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/redis"
	"Teamflow/internal/repository"
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Workspace{},
		&model.WorkspaceMember{},
		&model.WorkspaceInvite{},
		&model.Tag{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Milestone{},
		&model.Task{},
		&model.TaskTag{},
		&model.Subtask{},
		&model.Comment{},
		&model.TimeEntry{},
		&model.Timer{},
		&model.Folder{},
		&model.File{},
		&model.FileVersion{},
		&model.Conversation{},
		&model.ConversationMember{},
		&model.Message{},
		&model.MessageRead{},
		&model.Reaction{},
	)
	if err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}

// initTestRedis 广播推送走全局 Redis 客户端，测试里指向 miniredis
func initTestRedis(t *testing.T) {
	t.Helper()

	if config.Cfg == nil {
		// 头像等公开 URL 的拼接依赖全局配置
		config.Cfg = &config.Config{}
	}

	mr := miniredis.RunT(t)
	if err := redis.InitRedis(config.RedisConfig{Addr: mr.Addr()}); err != nil {
		t.Fatalf("初始化测试 Redis 失败: %v", err)
	}
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

var workspaceSeq atomic.Uint64

func seedWorkspace(t *testing.T, db *gorm.DB, ownerID uint64, memberIDs ...uint64) *model.Workspace {
	t.Helper()

	slug := "ws-" + strconv.FormatUint(workspaceSeq.Add(1), 10)
	ws := &model.Workspace{Name: "ws", Slug: slug, OwnerID: ownerID}
	owner := &model.WorkspaceMember{UserID: ownerID, Role: "OWNER", JoinedAt: time.Now()}
	repo := repository.NewWorkspaceRepo(db)
	if err := repo.CreateWorkspace(context.Background(), ws, owner); err != nil {
		t.Fatalf("创建测试工作区失败: %v", err)
	}
	for _, id := range memberIDs {
		member := &model.WorkspaceMember{WorkspaceID: ws.ID, UserID: id, Role: "MEMBER", JoinedAt: time.Now()}
		if err := repo.AddMember(context.Background(), member); err != nil {
			t.Fatalf("添加测试成员失败: %v", err)
		}
	}
	return ws
}
