package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/kafka"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

// TaskService 任务服务接口定义
type TaskService interface {
	CreateTask(ctx context.Context, userID, projectID uint64, req *dto.CreateTaskDTO) (*dto.TaskDTO, error)
	GetTask(ctx context.Context, userID, taskID uint64) (*dto.TaskDTO, error)
	GetTasks(ctx context.Context, userID, projectID uint64, query *dto.TaskListQueryDTO) ([]*dto.TaskDTO, error)
	GetMyTasks(ctx context.Context, userID, workspaceID uint64) ([]*dto.TaskDTO, error)
	UpdateTask(ctx context.Context, userID, taskID uint64, req *dto.UpdateTaskDTO) (*dto.TaskDTO, error)
	DeleteTask(ctx context.Context, userID, taskID uint64) error

	CreateSubtask(ctx context.Context, userID, taskID uint64, req *dto.CreateSubtaskDTO) (*dto.SubtaskDTO, error)
	GetSubtasks(ctx context.Context, userID, taskID uint64) ([]*dto.SubtaskDTO, error)
	UpdateSubtask(ctx context.Context, userID, subtaskID uint64, req *dto.UpdateSubtaskDTO) error
	DeleteSubtask(ctx context.Context, userID, subtaskID uint64) error
	PromoteSubtask(ctx context.Context, userID, subtaskID uint64) (*dto.TaskDTO, error)

	CreateComment(ctx context.Context, userID, taskID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	GetComments(ctx context.Context, userID, taskID uint64) ([]*dto.CommentDTO, error)
	UpdateComment(ctx context.Context, userID, commentID uint64, req *dto.CreateCommentDTO) error
	DeleteComment(ctx context.Context, userID, commentID uint64) error
}

type taskServiceImpl struct {
	guard         Guard
	taskRepo      repository.TaskRepo
	workspaceRepo repository.WorkspaceRepo
}

func NewTaskService(guard Guard, taskRepo repository.TaskRepo, workspaceRepo repository.WorkspaceRepo) TaskService {
	return &taskServiceImpl{
		guard:         guard,
		taskRepo:      taskRepo,
		workspaceRepo: workspaceRepo,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, userID, projectID uint64, req *dto.CreateTaskDTO) (*dto.TaskDTO, error) {
	project, err := s.guard.AssertProjectMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatusTodo,
		Priority:    model.TaskPriorityMedium,
		CreatorID:   userID,
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(timeLayout, req.DueDate)
		if err != nil {
			return nil, ErrParamInvalid
		}
		task.DueDate = &dueDate
	}
	if req.AssigneeID > 0 {
		if _, err = s.guard.AssertProjectMember(ctx, projectID, req.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = util.PtrUint64(req.AssigneeID)
	}

	if err = s.taskRepo.CreateTask(ctx, task, req.TagIDs); err != nil {
		return nil, err
	}

	if task.AssigneeID != nil && *task.AssigneeID != userID {
		go s.publishTaskEvent(consts.DomainEventTaskAssigned, userID, project.WorkspaceID, task, []uint64{*task.AssigneeID})
	} else {
		go s.publishTaskEvent(consts.DomainEventTaskUpdated, userID, project.WorkspaceID, task, nil)
	}

	return s.loadTaskDTO(ctx, task)
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uint64) (*dto.TaskDTO, error) {
	task, _, err := s.getAccessibleTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	return s.loadTaskDTO(ctx, task)
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, userID, projectID uint64, query *dto.TaskListQueryDTO) ([]*dto.TaskDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	filter := repository.TaskFilter{
		Status:     query.Status,
		Priority:   query.Priority,
		AssigneeID: query.AssigneeID,
		TagID:      query.TagID,
	}
	tasks, err := s.taskRepo.GetTasksByProjectID(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		d, err := s.loadTaskDTO(ctx, task)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, nil
}

// GetMyTasks 指定工作区内分配给当前用户的任务
func (s *taskServiceImpl) GetMyTasks(ctx context.Context, userID, workspaceID uint64) ([]*dto.TaskDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetTasksByAssignee(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		d, err := s.loadTaskDTO(ctx, task)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uint64, req *dto.UpdateTaskDTO) (*dto.TaskDTO, error) {
	task, project, err := s.getAccessibleTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			updates["due_date"] = nil
		} else {
			dueDate, err := time.Parse(timeLayout, *req.DueDate)
			if err != nil {
				return nil, ErrParamInvalid
			}
			updates["due_date"] = dueDate
		}
	}

	assigneeChanged := false
	if req.AssigneeID != nil {
		if *req.AssigneeID == 0 {
			updates["assignee_id"] = nil
		} else {
			if _, err = s.guard.AssertProjectMember(ctx, task.ProjectID, *req.AssigneeID); err != nil {
				return nil, err
			}
			updates["assignee_id"] = *req.AssigneeID
			assigneeChanged = task.AssigneeID == nil || *task.AssigneeID != *req.AssigneeID
		}
	}

	if len(updates) > 0 {
		if err = s.taskRepo.UpdateTask(ctx, taskID, updates); err != nil {
			return nil, err
		}
	}
	if req.TagIDs != nil {
		if err = s.taskRepo.ReplaceTaskTags(ctx, taskID, req.TagIDs); err != nil {
			return nil, err
		}
	}

	task, err = s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if assigneeChanged && task.AssigneeID != nil && *task.AssigneeID != userID {
		go s.publishTaskEvent(consts.DomainEventTaskAssigned, userID, project.WorkspaceID, task, []uint64{*task.AssigneeID})
	} else {
		go s.publishTaskEvent(consts.DomainEventTaskUpdated, userID, project.WorkspaceID, task, nil)
	}

	return s.loadTaskDTO(ctx, task)
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uint64) error {
	task, project, err := s.getAccessibleTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err = s.taskRepo.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	go func() {
		event := &kafka.DomainEvent{
			Type:        consts.DomainEventTaskUpdated,
			ActorID:     userID,
			WorkspaceID: project.WorkspaceID,
			ProjectID:   task.ProjectID,
			TargetID:    task.ID,
			Content:     task.Title,
			Payload:     map[string]string{"entity_type": "task", "deleted": "1"},
		}
		if err := kafka.PublishEvent(event); err != nil {
			log.Error("Failed to publish task deleted event", "task_id", task.ID, "err", err)
		}
	}()
	return nil
}

func (s *taskServiceImpl) CreateSubtask(ctx context.Context, userID, taskID uint64, req *dto.CreateSubtaskDTO) (*dto.SubtaskDTO, error) {
	if _, _, err := s.getAccessibleTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	maxPos, err := s.taskRepo.MaxSubtaskPosition(ctx, taskID)
	if err != nil {
		return nil, err
	}

	subtask := &model.Subtask{
		TaskID:   taskID,
		Title:    req.Title,
		Position: maxPos + 1,
	}
	if err = s.taskRepo.CreateSubtask(ctx, subtask); err != nil {
		return nil, err
	}
	return toSubtaskDTO(subtask), nil
}

func (s *taskServiceImpl) GetSubtasks(ctx context.Context, userID, taskID uint64) ([]*dto.SubtaskDTO, error) {
	if _, _, err := s.getAccessibleTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	subtasks, err := s.taskRepo.GetSubtasksByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SubtaskDTO, 0, len(subtasks))
	for _, subtask := range subtasks {
		res = append(res, toSubtaskDTO(subtask))
	}
	return res, nil
}

func (s *taskServiceImpl) UpdateSubtask(ctx context.Context, userID, subtaskID uint64, req *dto.UpdateSubtaskDTO) error {
	subtask, err := s.taskRepo.GetSubtaskByID(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubtaskNotFound
		}
		return err
	}
	if _, _, err = s.getAccessibleTask(ctx, userID, subtask.TaskID); err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.IsDone != nil {
		updates["is_done"] = *req.IsDone
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if len(updates) == 0 {
		return ErrParamInvalid
	}
	return s.taskRepo.UpdateSubtask(ctx, subtaskID, updates)
}

func (s *taskServiceImpl) DeleteSubtask(ctx context.Context, userID, subtaskID uint64) error {
	subtask, err := s.taskRepo.GetSubtaskByID(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubtaskNotFound
		}
		return err
	}
	if _, _, err = s.getAccessibleTask(ctx, userID, subtask.TaskID); err != nil {
		return err
	}
	return s.taskRepo.DeleteSubtask(ctx, subtaskID)
}

// PromoteSubtask 子任务升级为同项目下的独立任务
func (s *taskServiceImpl) PromoteSubtask(ctx context.Context, userID, subtaskID uint64) (*dto.TaskDTO, error) {
	subtask, err := s.taskRepo.GetSubtaskByID(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, err
	}
	parent, project, err := s.getAccessibleTask(ctx, userID, subtask.TaskID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID: parent.ProjectID,
		Title:     subtask.Title,
		Status:    model.TaskStatusTodo,
		Priority:  parent.Priority,
		CreatorID: userID,
	}
	if subtask.IsDone {
		task.Status = model.TaskStatusDone
	}
	if err = s.taskRepo.PromoteSubtask(ctx, subtaskID, task); err != nil {
		return nil, err
	}

	go s.publishTaskEvent(consts.DomainEventTaskUpdated, userID, project.WorkspaceID, task, nil)
	return s.loadTaskDTO(ctx, task)
}

func (s *taskServiceImpl) CreateComment(ctx context.Context, userID, taskID uint64, req *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	task, project, err := s.getAccessibleTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		TaskID:   taskID,
		AuthorID: userID,
		Content:  req.Content,
	}
	if err = s.taskRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	// 通知任务负责人与创建者
	receivers := []uint64{task.CreatorID}
	if task.AssigneeID != nil {
		receivers = append(receivers, *task.AssigneeID)
	}
	go func() {
		event := &kafka.DomainEvent{
			Type:        consts.DomainEventCommentCreated,
			ActorID:     userID,
			WorkspaceID: project.WorkspaceID,
			ProjectID:   task.ProjectID,
			TargetID:    task.ID,
			ReceiverIDs: receivers,
			Content:     req.Content,
			Payload:     map[string]string{"entity_type": "comment", "task_title": task.Title},
		}
		if err := kafka.PublishEvent(event); err != nil {
			log.Error("Failed to publish comment event", "task_id", task.ID, "err", err)
		}
	}()

	return toCommentDTO(comment), nil
}

func (s *taskServiceImpl) GetComments(ctx context.Context, userID, taskID uint64) ([]*dto.CommentDTO, error) {
	if _, _, err := s.getAccessibleTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	comments, err := s.taskRepo.GetCommentsByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		res = append(res, toCommentDTO(comment))
	}
	return res, nil
}

func (s *taskServiceImpl) UpdateComment(ctx context.Context, userID, commentID uint64, req *dto.CreateCommentDTO) error {
	comment, err := s.taskRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	// 只有作者可以编辑
	if comment.AuthorID != userID {
		return ErrNotMember
	}
	return s.taskRepo.UpdateComment(ctx, commentID, req.Content)
}

func (s *taskServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.taskRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != userID {
		return ErrNotMember
	}
	return s.taskRepo.DeleteComment(ctx, commentID)
}

// getAccessibleTask 加载任务并校验项目访问权，返回任务与所属项目
func (s *taskServiceImpl) getAccessibleTask(ctx context.Context, userID, taskID uint64) (*model.Task, *model.Project, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, err
	}

	project, err := s.guard.AssertProjectMember(ctx, task.ProjectID, userID)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

func (s *taskServiceImpl) loadTaskDTO(ctx context.Context, task *model.Task) (*dto.TaskDTO, error) {
	tagIDs, err := s.taskRepo.GetTaskTagIDs(ctx, task.ID)
	if err != nil {
		return nil, err
	}

	var tags []*model.Tag
	if len(tagIDs) > 0 {
		tags, err = s.workspaceRepo.GetTagsByIDs(ctx, tagIDs)
		if err != nil {
			return nil, err
		}
	}
	return toTaskDTO(task, tags), nil
}

func (s *taskServiceImpl) publishTaskEvent(eventType string, actorID, workspaceID uint64, task *model.Task, receivers []uint64) {
	event := &kafka.DomainEvent{
		Type:        eventType,
		ActorID:     actorID,
		WorkspaceID: workspaceID,
		ProjectID:   task.ProjectID,
		TargetID:    task.ID,
		ReceiverIDs: receivers,
		Content:     task.Title,
		Payload:     map[string]string{"entity_type": "task"},
	}
	if err := kafka.PublishEvent(event); err != nil {
		log.Error("Failed to publish task event", "task_id", task.ID, "type", eventType, "err", err)
	}
}
