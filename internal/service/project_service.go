package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/mongo"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ProjectService 项目服务接口定义
type ProjectService interface {
	CreateProject(ctx context.Context, userID, workspaceID uint64, req *dto.CreateProjectDTO) (*dto.ProjectDTO, error)
	GetProject(ctx context.Context, userID, projectID uint64) (*dto.ProjectDTO, error)
	GetProjects(ctx context.Context, userID, workspaceID uint64) ([]*dto.ProjectDTO, error)
	UpdateProject(ctx context.Context, userID, projectID uint64, req *dto.UpdateProjectDTO) error
	DeleteProject(ctx context.Context, userID, projectID uint64) error

	AddMember(ctx context.Context, userID, projectID, targetUserID uint64) error
	RemoveMember(ctx context.Context, userID, projectID, targetUserID uint64) error

	CreateMilestone(ctx context.Context, userID, projectID uint64, req *dto.CreateMilestoneDTO) (*dto.MilestoneDTO, error)
	GetMilestones(ctx context.Context, userID, projectID uint64) ([]*dto.MilestoneDTO, error)
	UpdateMilestone(ctx context.Context, userID, projectID, milestoneID uint64, req *dto.UpdateMilestoneDTO) error
	DeleteMilestone(ctx context.Context, userID, projectID, milestoneID uint64) error

	GetActivities(ctx context.Context, userID, projectID uint64, limit int64) ([]*dto.ActivityDTO, error)
}

type projectServiceImpl struct {
	guard        Guard
	projectRepo  repository.ProjectRepo
	activityRepo mongo.ActivityRepo
}

func NewProjectService(guard Guard, projectRepo repository.ProjectRepo, activityRepo mongo.ActivityRepo) ProjectService {
	return &projectServiceImpl{
		guard:        guard,
		projectRepo:  projectRepo,
		activityRepo: activityRepo,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, userID, workspaceID uint64, req *dto.CreateProjectDTO) (*dto.ProjectDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	project := &model.Project{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		Status:      model.ProjectStatusActive,
		CreatorID:   userID,
	}
	creator := &model.ProjectMember{
		UserID:   userID,
		Role:     consts.RoleOwner,
		JoinedAt: time.Now(),
	}
	if err := s.projectRepo.CreateProject(ctx, project, creator); err != nil {
		return nil, err
	}
	return toProjectDTO(project), nil
}

func (s *projectServiceImpl) GetProject(ctx context.Context, userID, projectID uint64) (*dto.ProjectDTO, error) {
	project, err := s.guard.AssertProjectMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return toProjectDTO(project), nil
}

func (s *projectServiceImpl) GetProjects(ctx context.Context, userID, workspaceID uint64) ([]*dto.ProjectDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.GetProjectsByWorkspaceID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ProjectDTO, 0, len(projects))
	for _, project := range projects {
		res = append(res, toProjectDTO(project))
	}
	return res, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, userID, projectID uint64, req *dto.UpdateProjectDTO) error {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return ErrParamInvalid
	}
	return s.projectRepo.UpdateProject(ctx, projectID, updates)
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, userID, projectID uint64) error {
	project, err := s.guard.AssertProjectMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	// 删除项目需要工作区所有者权限
	if err = s.guard.AssertWorkspaceOwner(ctx, project.WorkspaceID, userID); err != nil {
		return err
	}
	return s.projectRepo.DeleteProject(ctx, projectID)
}

func (s *projectServiceImpl) AddMember(ctx context.Context, userID, projectID, targetUserID uint64) error {
	project, err := s.guard.AssertProjectMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	// 新成员必须先是工作区成员
	if _, err = s.guard.AssertWorkspaceMember(ctx, project.WorkspaceID, targetUserID); err != nil {
		return err
	}

	if _, err = s.projectRepo.GetMember(ctx, projectID, targetUserID); err == nil {
		return ErrMemberExist
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	member := &model.ProjectMember{
		ProjectID: projectID,
		UserID:    targetUserID,
		Role:      consts.RoleMember,
		JoinedAt:  time.Now(),
	}
	return s.projectRepo.AddMember(ctx, member)
}

func (s *projectServiceImpl) RemoveMember(ctx context.Context, userID, projectID, targetUserID uint64) error {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return err
	}
	return s.projectRepo.RemoveMember(ctx, projectID, targetUserID)
}

func (s *projectServiceImpl) CreateMilestone(ctx context.Context, userID, projectID uint64, req *dto.CreateMilestoneDTO) (*dto.MilestoneDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	dueDate, err := time.Parse(timeLayout, req.DueDate)
	if err != nil {
		return nil, ErrParamInvalid
	}

	milestone := &model.Milestone{
		ProjectID: projectID,
		Name:      req.Name,
		DueDate:   &dueDate,
	}
	if err = s.projectRepo.CreateMilestone(ctx, milestone); err != nil {
		return nil, err
	}
	return toMilestoneDTO(milestone), nil
}

func (s *projectServiceImpl) GetMilestones(ctx context.Context, userID, projectID uint64) ([]*dto.MilestoneDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	milestones, err := s.projectRepo.GetMilestonesByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MilestoneDTO, 0, len(milestones))
	for _, milestone := range milestones {
		res = append(res, toMilestoneDTO(milestone))
	}
	return res, nil
}

func (s *projectServiceImpl) UpdateMilestone(ctx context.Context, userID, projectID, milestoneID uint64, req *dto.UpdateMilestoneDTO) error {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(timeLayout, *req.DueDate)
		if err != nil {
			return ErrParamInvalid
		}
		updates["due_date"] = dueDate
	}
	if req.IsDone != nil {
		updates["is_done"] = *req.IsDone
	}
	if len(updates) == 0 {
		return ErrParamInvalid
	}
	return s.projectRepo.UpdateMilestone(ctx, milestoneID, updates)
}

func (s *projectServiceImpl) DeleteMilestone(ctx context.Context, userID, projectID, milestoneID uint64) error {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return err
	}
	return s.projectRepo.DeleteMilestone(ctx, milestoneID)
}

func (s *projectServiceImpl) GetActivities(ctx context.Context, userID, projectID uint64, limit int64) ([]*dto.ActivityDTO, error) {
	if _, err := s.guard.AssertProjectMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	activities, err := s.activityRepo.GetProjectActivities(ctx, projectID, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ActivityDTO, 0, len(activities))
	for _, a := range activities {
		res = append(res, &dto.ActivityDTO{
			ID:         a.ID.Hex(),
			ActorID:    a.ActorID,
			Action:     a.Action,
			EntityType: a.EntityType,
			EntityID:   a.EntityID,
			Summary:    a.Summary,
			CreatedAt:  a.CreatedAt.Format(timeLayout),
		})
	}
	return res, nil
}

func toMilestoneDTO(milestone *model.Milestone) *dto.MilestoneDTO {
	d := &dto.MilestoneDTO{
		ID:        milestone.ID,
		ProjectID: milestone.ProjectID,
		Name:      milestone.Name,
		IsDone:    milestone.IsDone,
	}
	if milestone.DueDate != nil {
		d.DueDate = milestone.DueDate.Format(timeLayout)
	}
	return d
}
