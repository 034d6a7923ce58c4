package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/pkg/minio"
	"Teamflow/internal/pkg/mongo"
	"Teamflow/internal/repository"
	"context"
	"errors"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// NotificationService 站内通知服务接口定义
type NotificationService interface {
	GetNotifications(ctx context.Context, userID uint64, page, pageSize int64) ([]*dto.NotificationDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, id string) error
	MarkAllAsRead(ctx context.Context, userID uint64) error
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error)
	DeleteNotification(ctx context.Context, userID uint64, id string) error
}

type notificationServiceImpl struct {
	notificationRepo mongo.NotificationRepo
	userRepo         repository.UserRepo
}

func NewNotificationService(notificationRepo mongo.NotificationRepo, userRepo repository.UserRepo) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// GetNotifications 分页拉取通知列表，批量补全发起者昵称与头像
func (s *notificationServiceImpl) GetNotifications(ctx context.Context, userID uint64, page, pageSize int64) ([]*dto.NotificationDTO, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	list, err := s.notificationRepo.GetNotificationList(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	actorIDs := make([]uint64, 0, len(list))
	seen := make(map[uint64]struct{}, len(list))
	for _, n := range list {
		if n.ActorID == 0 {
			continue
		}
		if _, ok := seen[n.ActorID]; ok {
			continue
		}
		seen[n.ActorID] = struct{}{}
		actorIDs = append(actorIDs, n.ActorID)
	}

	actors := make(map[uint64]*dto.UserDTO, len(actorIDs))
	if len(actorIDs) > 0 {
		users, err := s.userRepo.GetUsersByIDs(ctx, actorIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			actors[u.ID] = toUserDTO(u)
		}
	}

	res := make([]*dto.NotificationDTO, 0, len(list))
	for _, n := range list {
		d := &dto.NotificationDTO{
			ID:        n.ID.Hex(),
			ActorID:   n.ActorID,
			Type:      n.Type,
			TargetID:  n.TargetID,
			Content:   n.Content,
			Payload:   n.Payload,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt.Format(timeLayout),
		}
		if actor, ok := actors[n.ActorID]; ok {
			d.ActorName = actor.Name
			d.AvatarURL = minio.GetPublicURL(actor.AvatarURL)
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID uint64, id string) error {
	if err := s.notificationRepo.MarkAsRead(ctx, userID, id); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) || errors.Is(err, mongodriver.ErrInvalidIndexValue) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userID uint64) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.NotificationUnreadDTO, error) {
	count, err := s.notificationRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationUnreadDTO{UnreadCount: count}, nil
}

func (s *notificationServiceImpl) DeleteNotification(ctx context.Context, userID uint64, id string) error {
	if err := s.notificationRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) || errors.Is(err, mongodriver.ErrInvalidIndexValue) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
