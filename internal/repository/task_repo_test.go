package repository

import (
	"Teamflow/internal/model"
	"context"
	"testing"
)

func seedTask(t *testing.T, repo TaskRepo, projectID uint64, status, priority string, assigneeID *uint64, tagIDs []uint64) *model.Task {
	t.Helper()
	task := &model.Task{
		ProjectID:  projectID,
		Title:      "task",
		Status:     status,
		Priority:   priority,
		AssigneeID: assigneeID,
		CreatorID:  1,
	}
	if err := repo.CreateTask(context.Background(), task, tagIDs); err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	return task
}

func TestCreateTaskWithTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepo(db)
	ctx := context.Background()

	task := seedTask(t, repo, 1, "TODO", "HIGH", nil, []uint64{10, 11})

	ids, err := repo.GetTaskTagIDs(ctx, task.ID)
	if err != nil {
		t.Fatalf("查询任务标签失败: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("任务标签数应为 2，实际 %d", len(ids))
	}
}

func TestGetTasksByProjectIDFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepo(db)
	ctx := context.Background()

	seedTask(t, repo, 1, "TODO", "HIGH", ptrUint64(2), []uint64{10})
	seedTask(t, repo, 1, "DONE", "LOW", ptrUint64(3), nil)
	seedTask(t, repo, 2, "TODO", "HIGH", nil, nil)

	cases := []struct {
		name   string
		filter TaskFilter
		want   int
	}{
		{"无过滤", TaskFilter{}, 2},
		{"按状态", TaskFilter{Status: "TODO"}, 1},
		{"按优先级", TaskFilter{Priority: "LOW"}, 1},
		{"按负责人", TaskFilter{AssigneeID: 2}, 1},
		{"按标签", TaskFilter{TagID: 10}, 1},
		{"组合无命中", TaskFilter{Status: "DONE", AssigneeID: 2}, 0},
	}
	for _, tc := range cases {
		tasks, err := repo.GetTasksByProjectID(ctx, 1, tc.filter)
		if err != nil {
			t.Fatalf("%s: 查询失败: %v", tc.name, err)
		}
		if len(tasks) != tc.want {
			t.Fatalf("%s: 期望 %d 条，实际 %d", tc.name, tc.want, len(tasks))
		}
	}
}

func TestReplaceTaskTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepo(db)
	ctx := context.Background()

	task := seedTask(t, repo, 1, "TODO", "MEDIUM", nil, []uint64{10, 11})

	if err := repo.ReplaceTaskTags(ctx, task.ID, []uint64{12}); err != nil {
		t.Fatalf("替换标签失败: %v", err)
	}
	ids, err := repo.GetTaskTagIDs(ctx, task.ID)
	if err != nil {
		t.Fatalf("查询任务标签失败: %v", err)
	}
	if len(ids) != 1 || ids[0] != 12 {
		t.Fatalf("标签应被全量替换为 [12]，实际 %v", ids)
	}
}

func TestMaxSubtaskPosition(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepo(db)
	ctx := context.Background()

	task := seedTask(t, repo, 1, "TODO", "MEDIUM", nil, nil)

	// 无子任务时返回 0
	max, err := repo.MaxSubtaskPosition(ctx, task.ID)
	if err != nil {
		t.Fatalf("查询最大排序位失败: %v", err)
	}
	if max != 0 {
		t.Fatalf("空任务的最大排序位应为 0，实际 %d", max)
	}

	for i := 1; i <= 3; i++ {
		if err = repo.CreateSubtask(ctx, &model.Subtask{TaskID: task.ID, Title: "sub", Position: i}); err != nil {
			t.Fatalf("创建子任务失败: %v", err)
		}
	}
	max, err = repo.MaxSubtaskPosition(ctx, task.ID)
	if err != nil {
		t.Fatalf("查询最大排序位失败: %v", err)
	}
	if max != 3 {
		t.Fatalf("最大排序位应为 3，实际 %d", max)
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepo(db)
	ctx := context.Background()

	task := seedTask(t, repo, 1, "TODO", "MEDIUM", nil, []uint64{10})
	if err := repo.CreateSubtask(ctx, &model.Subtask{TaskID: task.ID, Title: "sub", Position: 1}); err != nil {
		t.Fatalf("创建子任务失败: %v", err)
	}
	if err := repo.CreateComment(ctx, &model.Comment{TaskID: task.ID, AuthorID: 1, Content: "hi"}); err != nil {
		t.Fatalf("创建评论失败: %v", err)
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("删除任务失败: %v", err)
	}

	var subtasks, comments, tags int64
	db.Model(&model.Subtask{}).Where("task_id = ?", task.ID).Count(&subtasks)
	db.Model(&model.Comment{}).Where("task_id = ?", task.ID).Count(&comments)
	db.Model(&model.TaskTag{}).Where("task_id = ?", task.ID).Count(&tags)
	if subtasks != 0 || comments != 0 || tags != 0 {
		t.Fatalf("级联删除后不应有残留: subtasks=%d comments=%d tags=%d", subtasks, comments, tags)
	}
}
