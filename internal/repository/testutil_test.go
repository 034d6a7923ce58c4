package repository

import (
	"Teamflow/internal/model"
	"testing"

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

func ptrUint64(v uint64) *uint64 { return &v }
