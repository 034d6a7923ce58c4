package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectSvc service.ProjectService
}

func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

func (s *ProjectHandler) CreateProject(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateProjectDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	project, err := s.projectSvc.CreateProject(c.Request.Context(), userID, pathID(c, "workspace_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

func (s *ProjectHandler) GetProjects(c *gin.Context) {
	userID := c.GetUint64("user_id")
	projects, err := s.projectSvc.GetProjects(c.Request.Context(), userID, pathID(c, "workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, projects)
}

func (s *ProjectHandler) GetProject(c *gin.Context) {
	userID := c.GetUint64("user_id")
	project, err := s.projectSvc.GetProject(c.Request.Context(), userID, pathID(c, "project_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, project)
}

func (s *ProjectHandler) UpdateProject(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UpdateProjectDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.projectSvc.UpdateProject(c.Request.Context(), userID, pathID(c, "project_id"), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) DeleteProject(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.projectSvc.DeleteProject(c.Request.Context(), userID, pathID(c, "project_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) AddMember(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.AddProjectMemberDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.projectSvc.AddMember(c.Request.Context(), userID, pathID(c, "project_id"), req.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) RemoveMember(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID := pathID(c, "target_id")
	if targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.projectSvc.RemoveMember(c.Request.Context(), userID, pathID(c, "project_id"), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) CreateMilestone(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateMilestoneDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	milestone, err := s.projectSvc.CreateMilestone(c.Request.Context(), userID, pathID(c, "project_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, milestone)
}

func (s *ProjectHandler) GetMilestones(c *gin.Context) {
	userID := c.GetUint64("user_id")
	milestones, err := s.projectSvc.GetMilestones(c.Request.Context(), userID, pathID(c, "project_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, milestones)
}

func (s *ProjectHandler) UpdateMilestone(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UpdateMilestoneDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	err := s.projectSvc.UpdateMilestone(c.Request.Context(), userID, pathID(c, "project_id"), pathID(c, "milestone_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) DeleteMilestone(c *gin.Context) {
	userID := c.GetUint64("user_id")
	err := s.projectSvc.DeleteMilestone(c.Request.Context(), userID, pathID(c, "project_id"), pathID(c, "milestone_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ProjectHandler) GetActivities(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	activities, err := s.projectSvc.GetActivities(c.Request.Context(), userID, pathID(c, "project_id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, activities)
}
