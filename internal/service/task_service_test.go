package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newTestTaskService(t *testing.T) (TaskService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	guard := NewGuard(
		repository.NewWorkspaceRepo(db),
		repository.NewProjectRepo(db),
		repository.NewConversationRepo(db),
	)
	svc := NewTaskService(guard, repository.NewTaskRepo(db), repository.NewWorkspaceRepo(db))
	return svc, db
}

func seedProject(t *testing.T, db *gorm.DB, workspaceID, creatorID uint64) *model.Project {
	t.Helper()

	project := &model.Project{WorkspaceID: workspaceID, Name: "p", CreatorID: creatorID}
	creator := &model.ProjectMember{UserID: creatorID, JoinedAt: time.Now()}
	if err := repository.NewProjectRepo(db).CreateProject(context.Background(), project, creator); err != nil {
		t.Fatalf("创建测试项目失败: %v", err)
	}
	return project
}

func TestCreateTaskValidatesAssignee(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	ws := seedWorkspace(t, db, owner.ID)
	project := seedProject(t, db, ws.ID, owner.ID)

	// 负责人必须是项目可见成员
	_, err := svc.CreateTask(ctx, owner.ID, project.ID, &dto.CreateTaskDTO{Title: "t", AssigneeID: 99})
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("外部负责人应被拒绝，实际 %v", err)
	}

	task, err := svc.CreateTask(ctx, owner.ID, project.ID, &dto.CreateTaskDTO{Title: "t", AssigneeID: owner.ID})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	if task.Status != model.TaskStatusTodo || task.AssigneeID != owner.ID {
		t.Fatalf("任务初始态不符: %+v", task)
	}
}

func TestGetMyTasksScopedToWorkspace(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	wsA := seedWorkspace(t, db, owner.ID)
	wsB := seedWorkspace(t, db, owner.ID)
	projectA := seedProject(t, db, wsA.ID, owner.ID)
	projectB := seedProject(t, db, wsB.ID, owner.ID)

	if _, err := svc.CreateTask(ctx, owner.ID, projectA.ID, &dto.CreateTaskDTO{Title: "in-a", AssigneeID: owner.ID}); err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	if _, err := svc.CreateTask(ctx, owner.ID, projectB.ID, &dto.CreateTaskDTO{Title: "in-b", AssigneeID: owner.ID}); err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	// 未分配的任务不出现在“我的任务”
	if _, err := svc.CreateTask(ctx, owner.ID, projectA.ID, &dto.CreateTaskDTO{Title: "unassigned"}); err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	mine, err := svc.GetMyTasks(ctx, owner.ID, wsA.ID)
	if err != nil {
		t.Fatalf("查询我的任务失败: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "in-a" {
		t.Fatalf("我的任务应只含当前工作区内分配给我的任务: %+v", mine)
	}
}

func TestPromoteSubtask(t *testing.T) {
	svc, db := newTestTaskService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	ws := seedWorkspace(t, db, owner.ID)
	project := seedProject(t, db, ws.ID, owner.ID)

	parent, err := svc.CreateTask(ctx, owner.ID, project.ID, &dto.CreateTaskDTO{Title: "parent", Priority: model.TaskPriorityHigh})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	subtask, err := svc.CreateSubtask(ctx, owner.ID, parent.ID, &dto.CreateSubtaskDTO{Title: "child"})
	if err != nil {
		t.Fatalf("创建子任务失败: %v", err)
	}

	promoted, err := svc.PromoteSubtask(ctx, owner.ID, subtask.ID)
	if err != nil {
		t.Fatalf("子任务升级失败: %v", err)
	}
	if promoted.Title != "child" || promoted.ProjectID != project.ID {
		t.Fatalf("升级后的任务不符: %+v", promoted)
	}
	// 继承父任务优先级
	if promoted.Priority != model.TaskPriorityHigh {
		t.Fatalf("应继承父任务优先级，实际 %s", promoted.Priority)
	}

	// 原子任务已被消耗
	var count int64
	db.Model(&model.Subtask{}).Where("id = ?", subtask.ID).Count(&count)
	if count != 0 {
		t.Fatalf("升级后子任务应被删除，残留 %d", count)
	}

	if _, err = svc.PromoteSubtask(ctx, owner.ID, subtask.ID); !errors.Is(err, ErrSubtaskNotFound) {
		t.Fatalf("重复升级应返回 ErrSubtaskNotFound，实际 %v", err)
	}
}
