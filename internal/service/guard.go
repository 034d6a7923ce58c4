package service

import (
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

// Guard 统一的成员资格校验入口。
// 所有按上下文读写数据的服务先过这里，再碰业务表。
type Guard interface {
	AssertWorkspaceMember(ctx context.Context, workspaceID, userID uint64) (*model.WorkspaceMember, error)
	AssertWorkspaceOwner(ctx context.Context, workspaceID, userID uint64) error
	AssertProjectMember(ctx context.Context, projectID, userID uint64) (*model.Project, error)
	AssertConversationMember(ctx context.Context, conversationID, userID uint64) (*model.Conversation, error)
}

type guardImpl struct {
	workspaceRepo    repository.WorkspaceRepo
	projectRepo      repository.ProjectRepo
	conversationRepo repository.ConversationRepo
}

func NewGuard(
	workspaceRepo repository.WorkspaceRepo,
	projectRepo repository.ProjectRepo,
	conversationRepo repository.ConversationRepo,
) Guard {
	return &guardImpl{
		workspaceRepo:    workspaceRepo,
		projectRepo:      projectRepo,
		conversationRepo: conversationRepo,
	}
}

func (s *guardImpl) AssertWorkspaceMember(ctx context.Context, workspaceID, userID uint64) (*model.WorkspaceMember, error) {
	member, err := s.workspaceRepo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 工作区不存在与非成员都按无权处理，不暴露存在性
			return nil, ErrNotMember
		}
		return nil, err
	}
	return member, nil
}

func (s *guardImpl) AssertWorkspaceOwner(ctx context.Context, workspaceID, userID uint64) error {
	member, err := s.AssertWorkspaceMember(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if member.Role != consts.RoleOwner {
		return ErrNotOwner
	}
	return nil
}

// AssertProjectMember 项目成员 = 项目成员表有记录，或项目所属工作区的成员。
// 校验通过返回项目本体，调用方无需再次查询。
func (s *guardImpl) AssertProjectMember(ctx context.Context, projectID, userID uint64) (*model.Project, error) {
	project, err := s.projectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if _, err = s.projectRepo.GetMember(ctx, projectID, userID); err == nil {
		return project, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err = s.AssertWorkspaceMember(ctx, project.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *guardImpl) AssertConversationMember(ctx context.Context, conversationID, userID uint64) (*model.Conversation, error) {
	conv, err := s.conversationRepo.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if _, err = s.conversationRepo.GetMember(ctx, conversationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return conv, nil
}
