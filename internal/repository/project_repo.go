package repository

import (
	"Teamflow/internal/model"
	"context"

	"gorm.io/gorm"
)

type ProjectRepo interface {
	CreateProject(ctx context.Context, project *model.Project, creator *model.ProjectMember) error
	GetProjectByID(ctx context.Context, id uint64) (*model.Project, error)
	GetProjectsByWorkspaceID(ctx context.Context, workspaceID uint64) ([]*model.Project, error)
	CountByWorkspaceID(ctx context.Context, workspaceID uint64) (int64, error)
	UpdateProject(ctx context.Context, id uint64, updates map[string]interface{}) error
	DeleteProject(ctx context.Context, id uint64) error

	GetMember(ctx context.Context, projectID, userID uint64) (*model.ProjectMember, error)
	GetMembers(ctx context.Context, projectID uint64) ([]*model.ProjectMember, error)
	AddMember(ctx context.Context, member *model.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID uint64) error

	CreateMilestone(ctx context.Context, milestone *model.Milestone) error
	GetMilestonesByProjectID(ctx context.Context, projectID uint64) ([]*model.Milestone, error)
	UpdateMilestone(ctx context.Context, id uint64, updates map[string]interface{}) error
	DeleteMilestone(ctx context.Context, id uint64) error
}

type projectRepoImpl struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepoImpl{db: db}
}

func (s *projectRepoImpl) CreateProject(ctx context.Context, project *model.Project, creator *model.ProjectMember) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		creator.ProjectID = project.ID
		return tx.Create(creator).Error
	})
}

func (s *projectRepoImpl) GetProjectByID(ctx context.Context, id uint64) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).First(&project, id).Error
	return &project, err
}

func (s *projectRepoImpl) GetProjectsByWorkspaceID(ctx context.Context, workspaceID uint64) ([]*model.Project, error) {
	var projects []*model.Project
	err := s.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Find(&projects).Error
	return projects, err
}

func (s *projectRepoImpl) CountByWorkspaceID(ctx context.Context, workspaceID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Project{}).
		Where("workspace_id = ?", workspaceID).
		Count(&count).Error
	return count, err
}

func (s *projectRepoImpl) UpdateProject(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error
}

func (s *projectRepoImpl) DeleteProject(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Milestone{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
}

func (s *projectRepoImpl) GetMember(ctx context.Context, projectID, userID uint64) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	return &member, err
}

func (s *projectRepoImpl) GetMembers(ctx context.Context, projectID uint64) ([]*model.ProjectMember, error) {
	var members []*model.ProjectMember
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&members).Error
	return members, err
}

func (s *projectRepoImpl) AddMember(ctx context.Context, member *model.ProjectMember) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *projectRepoImpl) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

func (s *projectRepoImpl) CreateMilestone(ctx context.Context, milestone *model.Milestone) error {
	return s.db.WithContext(ctx).Create(milestone).Error
}

func (s *projectRepoImpl) GetMilestonesByProjectID(ctx context.Context, projectID uint64) ([]*model.Milestone, error) {
	var milestones []*model.Milestone
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("due_date ASC").
		Find(&milestones).Error
	return milestones, err
}

func (s *projectRepoImpl) UpdateMilestone(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Milestone{}).Where("id = ?", id).Updates(updates).Error
}

func (s *projectRepoImpl) DeleteMilestone(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Milestone{}, id).Error
}
