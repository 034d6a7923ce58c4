package kafka

import (
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/mongo"
	"Teamflow/internal/pkg/redis"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// actionOf 领域事件类型到动态流动作的映射
var actionOf = map[string]string{
	consts.DomainEventTaskAssigned:   "assigned",
	consts.DomainEventTaskUpdated:    "updated",
	consts.DomainEventCommentCreated: "commented",
	consts.DomainEventInviteCreated:  "invited",
	consts.DomainEventMemberJoined:   "joined",
	consts.DomainEventMessageSent:    "messaged",
}

// NotificationHandler 消费领域事件，落站内通知与工作区动态流，
// 并向接收者的个人频道推送实时提醒
type NotificationHandler struct {
	notificationRepo mongo.NotificationRepo
	activityRepo     mongo.ActivityRepo
}

func NewNotificationHandler(notificationRepo mongo.NotificationRepo, activityRepo mongo.ActivityRepo) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		activityRepo:     activityRepo,
	}
}

func (s *NotificationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer setup")
	return nil
}

func (s *NotificationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notification consumer cleanup")
	return nil
}

func (s *NotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("notification consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	log.Info("notification consume claim end")
	return nil
}

func (s *NotificationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToDomainEvent(msg)
	if err != nil {
		return err
	}

	payload := make(map[string]any, len(event.Payload))
	for k, v := range event.Payload {
		payload[k] = v
	}

	for _, receiverID := range event.ReceiverIDs {
		// 不给动作发起者自己发通知
		if receiverID == event.ActorID {
			continue
		}

		n := &mongo.NotificationModel{
			ReceiverID: receiverID,
			ActorID:    event.ActorID,
			Type:       event.Type,
			TargetID:   event.TargetID,
			Content:    event.Content,
			Payload:    payload,
			CreatedAt:  event.OccurredAt,
		}
		if err = s.notificationRepo.CreateNotification(ctx, n); err != nil {
			return errors.Wrapf(err, "create notification for user %d", receiverID)
		}

		s.pushRealtime(ctx, receiverID, n)
	}

	return s.saveActivity(ctx, event)
}

// pushRealtime 向个人频道推送实时提醒，失败只记日志不重试
func (s *NotificationHandler) pushRealtime(ctx context.Context, receiverID uint64, n *mongo.NotificationModel) {
	envelope := map[string]any{
		"event": consts.EventNotification,
		"data":  n,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return
	}

	channel := fmt.Sprintf("%s%d", consts.ChannelUserKey, receiverID)
	pushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err = redis.Publish(pushCtx, channel, value); err != nil {
		log.Warn("push realtime notification failed", "channel", channel, "err", err)
	}
}

func (s *NotificationHandler) saveActivity(ctx context.Context, event *DomainEvent) error {
	action, ok := actionOf[event.Type]
	if !ok {
		return nil
	}

	activity := &mongo.ActivityModel{
		WorkspaceID: event.WorkspaceID,
		ProjectID:   event.ProjectID,
		ActorID:     event.ActorID,
		Action:      action,
		EntityType:  event.Payload["entity_type"],
		EntityID:    event.TargetID,
		Summary:     event.Content,
		CreatedAt:   event.OccurredAt,
	}
	if err := s.activityRepo.SaveActivity(ctx, activity); err != nil {
		return errors.Wrap(err, "save activity")
	}
	return nil
}
