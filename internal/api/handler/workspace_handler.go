package handler

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/response"
	"Teamflow/internal/pkg/util"
	"Teamflow/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	workspaceSvc service.WorkspaceService
}

func NewWorkspaceHandler(workspaceSvc service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceSvc: workspaceSvc}
}

func (s *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateWorkspaceDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	ws, err := s.workspaceSvc.CreateWorkspace(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ws)
}

func (s *WorkspaceHandler) GetMyWorkspaces(c *gin.Context) {
	userID := c.GetUint64("user_id")
	list, err := s.workspaceSvc.GetMyWorkspaces(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	userID := c.GetUint64("user_id")
	ws, err := s.workspaceSvc.GetWorkspace(c.Request.Context(), userID, pathID(c, "workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ws)
}

// GetWorkspaceBySlug slug 定位工作区，供前端路由反查
func (s *WorkspaceHandler) GetWorkspaceBySlug(c *gin.Context) {
	userID := c.GetUint64("user_id")
	slug := c.Param("slug")
	if slug == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	ws, err := s.workspaceSvc.GetWorkspaceBySlug(c.Request.Context(), userID, slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ws)
}

func (s *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.UpdateWorkspaceDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.workspaceSvc.UpdateWorkspace(c.Request.Context(), userID, pathID(c, "workspace_id"), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.workspaceSvc.DeleteWorkspace(c.Request.Context(), userID, pathID(c, "workspace_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WorkspaceHandler) GetMembers(c *gin.Context) {
	userID := c.GetUint64("user_id")
	members, err := s.workspaceSvc.GetMembers(c.Request.Context(), userID, pathID(c, "workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

func (s *WorkspaceHandler) RemoveMember(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID := pathID(c, "target_id")
	if targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.workspaceSvc.RemoveMember(c.Request.Context(), userID, pathID(c, "workspace_id"), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WorkspaceHandler) CreateInvite(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateInviteDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	invite, err := s.workspaceSvc.CreateInvite(c.Request.Context(), userID, pathID(c, "workspace_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, invite)
}

func (s *WorkspaceHandler) GetInvites(c *gin.Context) {
	userID := c.GetUint64("user_id")
	invites, err := s.workspaceSvc.GetInvites(c.Request.Context(), userID, pathID(c, "workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, invites)
}

func (s *WorkspaceHandler) AcceptInvite(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.AcceptInviteDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	ws, err := s.workspaceSvc.AcceptInvite(c.Request.Context(), userID, req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ws)
}

func (s *WorkspaceHandler) CreateTag(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.CreateTagDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	tag, err := s.workspaceSvc.CreateTag(c.Request.Context(), userID, pathID(c, "workspace_id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag)
}

func (s *WorkspaceHandler) GetTags(c *gin.Context) {
	userID := c.GetUint64("user_id")
	tags, err := s.workspaceSvc.GetTags(c.Request.Context(), userID, pathID(c, "workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (s *WorkspaceHandler) DeleteTag(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.workspaceSvc.DeleteTag(c.Request.Context(), userID, pathID(c, "workspace_id"), pathID(c, "tag_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *WorkspaceHandler) GetActivities(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	activities, err := s.workspaceSvc.GetActivities(c.Request.Context(), userID, pathID(c, "workspace_id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, activities)
}

func (s *WorkspaceHandler) GetDashboard(c *gin.Context) {
	userID := c.GetUint64("user_id")
	dashboard, err := s.workspaceSvc.GetDashboard(c.Request.Context(), userID, pathID(c, "workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}

// pathID 解析路径中的数字 ID，非法输入返回 0 交由下游校验
func pathID(c *gin.Context, name string) uint64 {
	return util.StrToUint64(c.Param(name))
}
