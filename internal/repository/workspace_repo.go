package repository

import (
	"Teamflow/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type WorkspaceRepo interface {
	CreateWorkspace(ctx context.Context, ws *model.Workspace, owner *model.WorkspaceMember) error
	GetWorkspaceByID(ctx context.Context, id uint64) (*model.Workspace, error)
	GetWorkspaceBySlug(ctx context.Context, slug string) (*model.Workspace, error)
	GetWorkspacesByUserID(ctx context.Context, userID uint64) ([]*model.Workspace, error)
	UpdateWorkspace(ctx context.Context, id uint64, updates map[string]interface{}) error
	DeleteWorkspace(ctx context.Context, id uint64) error

	GetMember(ctx context.Context, workspaceID, userID uint64) (*model.WorkspaceMember, error)
	GetMembers(ctx context.Context, workspaceID uint64) ([]*model.WorkspaceMember, error)
	AddMember(ctx context.Context, member *model.WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID, userID uint64) error

	CreateInvite(ctx context.Context, invite *model.WorkspaceInvite) error
	GetInviteByToken(ctx context.Context, token string) (*model.WorkspaceInvite, error)
	GetInvitesByWorkspaceID(ctx context.Context, workspaceID uint64) ([]*model.WorkspaceInvite, error)
	AcceptInvite(ctx context.Context, id uint64, acceptedAt time.Time) error
	DeleteExpiredInvites(ctx context.Context, before time.Time) (int64, error)

	CreateTag(ctx context.Context, tag *model.Tag) error
	GetTagsByWorkspaceID(ctx context.Context, workspaceID uint64) ([]*model.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []uint64) ([]*model.Tag, error)
	DeleteTag(ctx context.Context, id uint64) error
}

type workspaceRepoImpl struct {
	db *gorm.DB
}

func NewWorkspaceRepo(db *gorm.DB) WorkspaceRepo {
	return &workspaceRepoImpl{db: db}
}

// CreateWorkspace 创建空间并把创建者写入成员表，两步放在同一事务
func (s *workspaceRepoImpl) CreateWorkspace(ctx context.Context, ws *model.Workspace, owner *model.WorkspaceMember) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}
		owner.WorkspaceID = ws.ID
		return tx.Create(owner).Error
	})
}

func (s *workspaceRepoImpl) GetWorkspaceByID(ctx context.Context, id uint64) (*model.Workspace, error) {
	var ws model.Workspace
	err := s.db.WithContext(ctx).First(&ws, id).Error
	return &ws, err
}

func (s *workspaceRepoImpl) GetWorkspaceBySlug(ctx context.Context, slug string) (*model.Workspace, error) {
	var ws model.Workspace
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&ws).Error
	return &ws, err
}

func (s *workspaceRepoImpl) GetWorkspacesByUserID(ctx context.Context, userID uint64) ([]*model.Workspace, error) {
	var workspaces []*model.Workspace
	err := s.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Find(&workspaces).Error
	return workspaces, err
}

func (s *workspaceRepoImpl) UpdateWorkspace(ctx context.Context, id uint64, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.Workspace{}).Where("id = ?", id).Updates(updates).Error
}

func (s *workspaceRepoImpl) DeleteWorkspace(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", id).Delete(&model.WorkspaceMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workspace_id = ?", id).Delete(&model.WorkspaceInvite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Workspace{}, id).Error
	})
}

func (s *workspaceRepoImpl) GetMember(ctx context.Context, workspaceID, userID uint64) (*model.WorkspaceMember, error) {
	var member model.WorkspaceMember
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	return &member, err
}

func (s *workspaceRepoImpl) GetMembers(ctx context.Context, workspaceID uint64) ([]*model.WorkspaceMember, error) {
	var members []*model.WorkspaceMember
	err := s.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Find(&members).Error
	return members, err
}

func (s *workspaceRepoImpl) AddMember(ctx context.Context, member *model.WorkspaceMember) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *workspaceRepoImpl) RemoveMember(ctx context.Context, workspaceID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&model.WorkspaceMember{}).Error
}

func (s *workspaceRepoImpl) CreateInvite(ctx context.Context, invite *model.WorkspaceInvite) error {
	return s.db.WithContext(ctx).Create(invite).Error
}

func (s *workspaceRepoImpl) GetInviteByToken(ctx context.Context, token string) (*model.WorkspaceInvite, error) {
	var invite model.WorkspaceInvite
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&invite).Error
	return &invite, err
}

func (s *workspaceRepoImpl) GetInvitesByWorkspaceID(ctx context.Context, workspaceID uint64) ([]*model.WorkspaceInvite, error) {
	var invites []*model.WorkspaceInvite
	err := s.db.WithContext(ctx).
		Where("workspace_id = ? AND accepted_at IS NULL", workspaceID).
		Find(&invites).Error
	return invites, err
}

func (s *workspaceRepoImpl) AcceptInvite(ctx context.Context, id uint64, acceptedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&model.WorkspaceInvite{}).
		Where("id = ? AND accepted_at IS NULL", id).
		Update("accepted_at", acceptedAt).Error
}

// DeleteExpiredInvites 供定时任务清理过期且未被接受的邀请
func (s *workspaceRepoImpl) DeleteExpiredInvites(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ? AND accepted_at IS NULL", before).
		Delete(&model.WorkspaceInvite{})
	return result.RowsAffected, result.Error
}

func (s *workspaceRepoImpl) CreateTag(ctx context.Context, tag *model.Tag) error {
	return s.db.WithContext(ctx).Create(tag).Error
}

func (s *workspaceRepoImpl) GetTagsByWorkspaceID(ctx context.Context, workspaceID uint64) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := s.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Find(&tags).Error
	return tags, err
}

func (s *workspaceRepoImpl) GetTagsByIDs(ctx context.Context, ids []uint64) ([]*model.Tag, error) {
	var tags []*model.Tag
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

func (s *workspaceRepoImpl) DeleteTag(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.TaskTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, id).Error
	})
}
