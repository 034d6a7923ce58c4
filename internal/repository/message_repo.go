package repository

import (
	"Teamflow/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id uint64) (*model.Message, error)
	GetContextMessages(ctx context.Context, column string, contextID uint64, beforeID uint64, pageSize int) ([]*model.Message, error)
	GetDirectMessages(ctx context.Context, userID, peerID uint64, beforeID uint64, pageSize int) ([]*model.Message, error)
	UpdatePinned(ctx context.Context, id uint64, pinned bool) error

	MarkDelivered(ctx context.Context, id uint64, deliveredAt time.Time) (bool, error)
	MarkRead(ctx context.Context, read *model.MessageRead, advanceStatus bool) error

	GetReaction(ctx context.Context, messageID, userID uint64, emoji string) (*model.Reaction, error)
	CreateReaction(ctx context.Context, r *model.Reaction) error
	DeleteReaction(ctx context.Context, id uint64) error
	GetReactionsByMessageID(ctx context.Context, messageID uint64) ([]*model.Reaction, error)
}

type messageRepoImpl struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepoImpl{db: db}
}

func (s *messageRepoImpl) CreateMessage(ctx context.Context, msg *model.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *messageRepoImpl) GetMessage(ctx context.Context, id uint64) (*model.Message, error) {
	var msg model.Message
	err := s.db.WithContext(ctx).First(&msg, id).Error
	return &msg, err
}

// GetContextMessages 按上下文列拉取历史，beforeID 为游标 (0 表示第一页)
func (s *messageRepoImpl) GetContextMessages(ctx context.Context, column string, contextID uint64, beforeID uint64, pageSize int) ([]*model.Message, error) {
	query := s.db.WithContext(ctx).Where(column+" = ?", contextID)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var messages []*model.Message
	err := query.Order("id DESC").Limit(pageSize).Find(&messages).Error
	return messages, err
}

// GetDirectMessages 私聊双向查询
func (s *messageRepoImpl) GetDirectMessages(ctx context.Context, userID, peerID uint64, beforeID uint64, pageSize int) ([]*model.Message, error) {
	query := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, peerID, peerID, userID)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var messages []*model.Message
	err := query.Order("id DESC").Limit(pageSize).Find(&messages).Error
	return messages, err
}

func (s *messageRepoImpl) UpdatePinned(ctx context.Context, id uint64, pinned bool) error {
	return s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", id).
		Update("is_pinned", pinned).Error
}

// MarkDelivered 状态机推进 SENT -> DELIVERED。
// 只有处于 SENT 的行才会被更新，重复调用不会重写 delivered_at。
// 返回值表示本次调用是否真正发生了状态迁移。
func (s *messageRepoImpl) MarkDelivered(ctx context.Context, id uint64, deliveredAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND status = ?", id, model.MessageStatusSent).
		Updates(map[string]interface{}{
			"status":       model.MessageStatusDelivered,
			"delivered_at": deliveredAt,
		})
	return result.RowsAffected > 0, result.Error
}

// MarkRead 在同一事务内完成已读水位线 upsert 与消息状态推进，
// 避免两条语句之间崩溃导致的半更新。
// 水位线只向前移动：晚到的请求若携带更早的时间戳则不生效。
func (s *messageRepoImpl) MarkRead(ctx context.Context, read *model.MessageRead, advanceStatus bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&model.MessageRead{}).Where("user_id = ?", read.UserID)
		switch {
		case read.WorkspaceID != nil:
			query = query.Where("workspace_id = ?", *read.WorkspaceID)
		case read.ProjectID != nil:
			query = query.Where("project_id = ?", *read.ProjectID)
		case read.ReceiverID != nil:
			query = query.Where("receiver_id = ?", *read.ReceiverID)
		}

		var existing model.MessageRead
		err := query.Session(&gorm.Session{}).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(read).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			read.ID = existing.ID
			if existing.LastReadAt.Before(read.LastReadAt) {
				err = query.Where("last_read_at < ?", read.LastReadAt).
					Updates(map[string]interface{}{
						"message_id":   read.MessageID,
						"last_read_at": read.LastReadAt,
					}).Error
				if err != nil {
					return err
				}
			} else {
				// 水位线不回退，保留已有记录
				read.LastReadAt = existing.LastReadAt
				read.MessageID = existing.MessageID
			}
		}

		if advanceStatus {
			return tx.Model(&model.Message{}).
				Where("id = ? AND status IN ?", read.MessageID,
					[]string{model.MessageStatusSent, model.MessageStatusDelivered}).
				Update("status", model.MessageStatusRead).Error
		}
		return nil
	})
}

func (s *messageRepoImpl) GetReaction(ctx context.Context, messageID, userID uint64, emoji string) (*model.Reaction, error) {
	var r model.Reaction
	err := s.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&r).Error
	return &r, err
}

func (s *messageRepoImpl) CreateReaction(ctx context.Context, r *model.Reaction) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *messageRepoImpl) DeleteReaction(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Reaction{}, id).Error
}

func (s *messageRepoImpl) GetReactionsByMessageID(ctx context.Context, messageID uint64) ([]*model.Reaction, error) {
	var reactions []*model.Reaction
	err := s.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("id ASC").
		Find(&reactions).Error
	return reactions, err
}
