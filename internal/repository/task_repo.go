package repository

import (
	"Teamflow/internal/model"
	"context"

	"gorm.io/gorm"
)

// TaskFilter 任务列表过滤条件，零值字段不参与过滤
type TaskFilter struct {
	Status     string
	Priority   string
	AssigneeID uint64
	TagID      uint64
}

type TaskRepo interface {
	CreateTask(ctx context.Context, task *model.Task, tagIDs []uint64) error
	GetTaskByID(ctx context.Context, id uint64) (*model.Task, error)
	GetTasksByProjectID(ctx context.Context, projectID uint64, filter TaskFilter) ([]*model.Task, error)
	GetTasksByAssignee(ctx context.Context, workspaceID, assigneeID uint64) ([]*model.Task, error)
	CountByWorkspaceStatus(ctx context.Context, workspaceID uint64) (map[string]int64, error)
	UpdateTask(ctx context.Context, id uint64, updates map[string]interface{}) error
	DeleteTask(ctx context.Context, id uint64) error
	ReplaceTaskTags(ctx context.Context, taskID uint64, tagIDs []uint64) error
	GetTaskTagIDs(ctx context.Context, taskID uint64) ([]uint64, error)

	CreateSubtask(ctx context.Context, subtask *model.Subtask) error
	GetSubtaskByID(ctx context.Context, id uint64) (*model.Subtask, error)
	GetSubtasksByTaskID(ctx context.Context, taskID uint64) ([]*model.Subtask, error)
	UpdateSubtask(ctx context.Context, id uint64, updates map[string]interface{}) error
	DeleteSubtask(ctx context.Context, id uint64) error
	MaxSubtaskPosition(ctx context.Context, taskID uint64) (int, error)
	PromoteSubtask(ctx context.Context, subtaskID uint64, task *model.Task) error

	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error)
	GetCommentsByTaskID(ctx context.Context, taskID uint64) ([]*model.Comment, error)
	UpdateComment(ctx context.Context, id uint64, content string) error
	DeleteComment(ctx context.Context, id uint64) error
}

type taskRepoImpl struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) TaskRepo {
	return &taskRepoImpl{db: db}
}

func (s *taskRepoImpl) CreateTask(ctx context.Context, task *model.Task, tagIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&model.TaskTag{TaskID: task.ID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *taskRepoImpl) GetTaskByID(ctx context.Context, id uint64) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	return &task, err
}

func (s *taskRepoImpl) GetTasksByProjectID(ctx context.Context, projectID uint64, filter TaskFilter) ([]*model.Task, error) {
	query := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AssigneeID > 0 {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.TagID > 0 {
		query = query.Joins("JOIN task_tags ON task_tags.task_id = tasks.id").
			Where("task_tags.tag_id = ?", filter.TagID)
	}

	var tasks []*model.Task
	err := query.Order("id DESC").Find(&tasks).Error
	return tasks, err
}

func (s *taskRepoImpl) GetTasksByAssignee(ctx context.Context, workspaceID, assigneeID uint64) ([]*model.Task, error) {
	var tasks []*model.Task
	err := s.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.workspace_id = ? AND tasks.assignee_id = ?", workspaceID, assigneeID).
		Order("tasks.id DESC").
		Find(&tasks).Error
	return tasks, err
}

// CountByWorkspaceStatus 工作区内任务按状态汇总
func (s *taskRepoImpl) CountByWorkspaceStatus(ctx context.Context, workspaceID uint64) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&model.Task{}).
		Select("tasks.status, COUNT(*) AS count").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.workspace_id = ?", workspaceID).
		Group("tasks.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (s *taskRepoImpl) UpdateTask(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates).Error
}

func (s *taskRepoImpl) DeleteTask(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, id).Error
	})
}

// ReplaceTaskTags 全量替换任务标签
func (s *taskRepoImpl) ReplaceTaskTags(ctx context.Context, taskID uint64, tagIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.TaskTag{}).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&model.TaskTag{TaskID: taskID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *taskRepoImpl) GetTaskTagIDs(ctx context.Context, taskID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.TaskTag{}).
		Where("task_id = ?", taskID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

func (s *taskRepoImpl) CreateSubtask(ctx context.Context, subtask *model.Subtask) error {
	return s.db.WithContext(ctx).Create(subtask).Error
}

func (s *taskRepoImpl) GetSubtaskByID(ctx context.Context, id uint64) (*model.Subtask, error) {
	var subtask model.Subtask
	err := s.db.WithContext(ctx).First(&subtask, id).Error
	return &subtask, err
}

func (s *taskRepoImpl) GetSubtasksByTaskID(ctx context.Context, taskID uint64) ([]*model.Subtask, error) {
	var subtasks []*model.Subtask
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("position ASC").
		Find(&subtasks).Error
	return subtasks, err
}

func (s *taskRepoImpl) UpdateSubtask(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Subtask{}).Where("id = ?", id).Updates(updates).Error
}

func (s *taskRepoImpl) DeleteSubtask(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Subtask{}, id).Error
}

func (s *taskRepoImpl) MaxSubtaskPosition(ctx context.Context, taskID uint64) (int, error) {
	var max int
	err := s.db.WithContext(ctx).Model(&model.Subtask{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max, err
}

// PromoteSubtask 子任务升级为独立任务，删除与创建同事务
func (s *taskRepoImpl) PromoteSubtask(ctx context.Context, subtaskID uint64, task *model.Task) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Subtask{}, subtaskID).Error; err != nil {
			return err
		}
		return tx.Create(task).Error
	})
}

func (s *taskRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *taskRepoImpl) GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	return &comment, err
}

func (s *taskRepoImpl) GetCommentsByTaskID(ctx context.Context, taskID uint64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (s *taskRepoImpl) UpdateComment(ctx context.Context, id uint64, content string) error {
	return s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("content", content).Error
}

func (s *taskRepoImpl) DeleteComment(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}
