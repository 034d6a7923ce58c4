package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/minio"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ConversationService 群聊会话服务接口定义
type ConversationService interface {
	CreateConversation(ctx context.Context, userID uint64, req *dto.CreateConversationDTO) (*dto.ConversationDTO, error)
	GetMyConversations(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
	GetMembers(ctx context.Context, userID, conversationID uint64) ([]*dto.UserDTO, error)
	AddMember(ctx context.Context, userID, conversationID, targetID uint64) error
	RemoveMember(ctx context.Context, userID, conversationID, targetID uint64) error
}

type conversationServiceImpl struct {
	guard            Guard
	conversationRepo repository.ConversationRepo
	userRepo         repository.UserRepo
}

func NewConversationService(guard Guard, conversationRepo repository.ConversationRepo, userRepo repository.UserRepo) ConversationService {
	return &conversationServiceImpl{
		guard:            guard,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
	}
}

// CreateConversation 创建群聊会话，所有初始成员必须是工作区成员
func (s *conversationServiceImpl) CreateConversation(ctx context.Context, userID uint64, req *dto.CreateConversationDTO) (*dto.ConversationDTO, error) {
	if _, err := s.guard.AssertWorkspaceMember(ctx, req.WorkspaceID, userID); err != nil {
		return nil, err
	}

	memberSet := map[uint64]struct{}{userID: {}}
	for _, id := range req.MemberIDs {
		if _, ok := memberSet[id]; ok {
			continue
		}
		if _, err := s.guard.AssertWorkspaceMember(ctx, req.WorkspaceID, id); err != nil {
			return nil, err
		}
		memberSet[id] = struct{}{}
	}

	memberIDs := make([]uint64, 0, len(memberSet))
	for id := range memberSet {
		memberIDs = append(memberIDs, id)
	}

	conv := &model.Conversation{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		IsGroup:     true,
		CreatorID:   userID,
	}
	if err := s.conversationRepo.CreateConversation(ctx, conv, memberIDs); err != nil {
		return nil, err
	}
	return toConversationDTO(conv), nil
}

func (s *conversationServiceImpl) GetMyConversations(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	conversations, err := s.conversationRepo.GetConversationsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(conversations))
	for _, conv := range conversations {
		res = append(res, toConversationDTO(conv))
	}
	return res, nil
}

func (s *conversationServiceImpl) GetMembers(ctx context.Context, userID, conversationID uint64) ([]*dto.UserDTO, error) {
	if _, err := s.guard.AssertConversationMember(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	members, err := s.conversationRepo.GetMembers(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		d := toUserDTO(u)
		d.AvatarURL = minio.GetPublicURL(u.AvatarURL)
		res = append(res, d)
	}
	return res, nil
}

// AddMember 拉人入会，新成员必须已在会话所属工作区
func (s *conversationServiceImpl) AddMember(ctx context.Context, userID, conversationID, targetID uint64) error {
	conv, err := s.guard.AssertConversationMember(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if _, err = s.guard.AssertWorkspaceMember(ctx, conv.WorkspaceID, targetID); err != nil {
		return err
	}

	if _, err = s.conversationRepo.GetMember(ctx, conversationID, targetID); err == nil {
		return ErrMemberExist
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.conversationRepo.AddMember(ctx, &model.ConversationMember{
		ConversationID: conversationID,
		UserID:         targetID,
		JoinedAt:       time.Now(),
	})
}

// RemoveMember 成员可自行退出，移除他人仅限创建者
func (s *conversationServiceImpl) RemoveMember(ctx context.Context, userID, conversationID, targetID uint64) error {
	conv, err := s.guard.AssertConversationMember(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if targetID != userID && conv.CreatorID != userID {
		return ErrNotMember
	}
	if targetID == conv.CreatorID && targetID != userID {
		return ErrNotMember
	}

	if _, err = s.conversationRepo.GetMember(ctx, conversationID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.conversationRepo.RemoveMember(ctx, conversationID, targetID)
}
