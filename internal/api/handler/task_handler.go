package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskSvc service.TaskService
}

func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

func (s *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateTaskDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	task, err := s.taskSvc.CreateTask(c.Request.Context(), userID, pathID(c, "project_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

func (s *TaskHandler) GetTasks(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var query dto.TaskListQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}
	tasks, err := s.taskSvc.GetTasks(c.Request.Context(), userID, pathID(c, "project_id"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

func (s *TaskHandler) GetTask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	task, err := s.taskSvc.GetTask(c.Request.Context(), userID, pathID(c, "task_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

func (s *TaskHandler) UpdateTask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UpdateTaskDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	task, err := s.taskSvc.UpdateTask(c.Request.Context(), userID, pathID(c, "task_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

func (s *TaskHandler) DeleteTask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.taskSvc.DeleteTask(c.Request.Context(), userID, pathID(c, "task_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetMyTasks 工作区内分配给当前用户的任务
func (s *TaskHandler) GetMyTasks(c *gin.Context) {
	userID := c.GetUint64("user_id")
	tasks, err := s.taskSvc.GetMyTasks(c.Request.Context(), userID, pathID(c, "workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tasks)
}

func (s *TaskHandler) CreateSubtask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateSubtaskDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	subtask, err := s.taskSvc.CreateSubtask(c.Request.Context(), userID, pathID(c, "task_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, subtask)
}

func (s *TaskHandler) GetSubtasks(c *gin.Context) {
	userID := c.GetUint64("user_id")
	subtasks, err := s.taskSvc.GetSubtasks(c.Request.Context(), userID, pathID(c, "task_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, subtasks)
}

func (s *TaskHandler) UpdateSubtask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UpdateSubtaskDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.taskSvc.UpdateSubtask(c.Request.Context(), userID, pathID(c, "subtask_id"), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TaskHandler) DeleteSubtask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.taskSvc.DeleteSubtask(c.Request.Context(), userID, pathID(c, "subtask_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TaskHandler) PromoteSubtask(c *gin.Context) {
	userID := c.GetUint64("user_id")
	task, err := s.taskSvc.PromoteSubtask(c.Request.Context(), userID, pathID(c, "subtask_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, task)
}

func (s *TaskHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateCommentDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.taskSvc.CreateComment(c.Request.Context(), userID, pathID(c, "task_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *TaskHandler) GetComments(c *gin.Context) {
	userID := c.GetUint64("user_id")
	comments, err := s.taskSvc.GetComments(c.Request.Context(), userID, pathID(c, "task_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *TaskHandler) UpdateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateCommentDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.taskSvc.UpdateComment(c.Request.Context(), userID, pathID(c, "comment_id"), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *TaskHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.taskSvc.DeleteComment(c.Request.Context(), userID, pathID(c, "comment_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
