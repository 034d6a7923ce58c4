package repository

import (
	"Teamflow/internal/model"
	"context"

	"gorm.io/gorm"
)

type ConversationRepo interface {
	CreateConversation(ctx context.Context, conv *model.Conversation, memberIDs []uint64) error
	GetConversationByID(ctx context.Context, id uint64) (*model.Conversation, error)
	GetConversationsByUserID(ctx context.Context, userID uint64) ([]*model.Conversation, error)
	GetMember(ctx context.Context, conversationID, userID uint64) (*model.ConversationMember, error)
	GetMembers(ctx context.Context, conversationID uint64) ([]*model.ConversationMember, error)
	AddMember(ctx context.Context, member *model.ConversationMember) error
	RemoveMember(ctx context.Context, conversationID, userID uint64) error
}

type conversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepoImpl{db: db}
}

// CreateConversation 会话与初始成员同一事务写入
func (s *conversationRepoImpl) CreateConversation(ctx context.Context, conv *model.Conversation, memberIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, userID := range memberIDs {
			member := &model.ConversationMember{ConversationID: conv.ID, UserID: userID}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *conversationRepoImpl) GetConversationByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.WithContext(ctx).First(&conv, id).Error
	return &conv, err
}

func (s *conversationRepoImpl) GetConversationsByUserID(ctx context.Context, userID uint64) ([]*model.Conversation, error) {
	var conversations []*model.Conversation
	err := s.db.WithContext(ctx).
		Joins("JOIN conversation_members ON conversation_members.conversation_id = conversations.id").
		Where("conversation_members.user_id = ?", userID).
		Find(&conversations).Error
	return conversations, err
}

func (s *conversationRepoImpl) GetMember(ctx context.Context, conversationID, userID uint64) (*model.ConversationMember, error) {
	var member model.ConversationMember
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&member).Error
	return &member, err
}

func (s *conversationRepoImpl) GetMembers(ctx context.Context, conversationID uint64) ([]*model.ConversationMember, error) {
	var members []*model.ConversationMember
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Find(&members).Error
	return members, err
}

func (s *conversationRepoImpl) AddMember(ctx context.Context, member *model.ConversationMember) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *conversationRepoImpl) RemoveMember(ctx context.Context, conversationID, userID uint64) error {
	return s.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Delete(&model.ConversationMember{}).Error
}
