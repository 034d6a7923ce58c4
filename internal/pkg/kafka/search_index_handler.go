package kafka

import (
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/es"
	"Teamflow/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"gorm.io/gorm"
)

// SearchIndexHandler 消费领域事件，把任务与消息同步进 Elasticsearch
type SearchIndexHandler struct {
	taskESRepo    es.TaskRepo
	messageESRepo es.MessageRepo
	taskDBRepo    repository.TaskRepo
	messageDBRepo repository.MessageRepo
	userDBRepo    repository.UserRepo
	wsDBRepo      repository.WorkspaceRepo
}

func NewSearchIndexHandler(
	taskESRepo es.TaskRepo,
	messageESRepo es.MessageRepo,
	taskDBRepo repository.TaskRepo,
	messageDBRepo repository.MessageRepo,
	userDBRepo repository.UserRepo,
	wsDBRepo repository.WorkspaceRepo,
) *SearchIndexHandler {
	return &SearchIndexHandler{
		taskESRepo:    taskESRepo,
		messageESRepo: messageESRepo,
		taskDBRepo:    taskDBRepo,
		messageDBRepo: messageDBRepo,
		userDBRepo:    userDBRepo,
		wsDBRepo:      wsDBRepo,
	}
}

func (s *SearchIndexHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("search index consumer setup")
	return nil
}

func (s *SearchIndexHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("search index consumer cleanup")
	return nil
}

func (s *SearchIndexHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("search index consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	log.Info("search index consume claim end")
	return nil
}

func (s *SearchIndexHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToDomainEvent(msg)
	if err != nil {
		return err
	}

	switch event.Type {
	case consts.DomainEventTaskAssigned, consts.DomainEventTaskUpdated:
		return s.indexTask(ctx, event)
	case consts.DomainEventMessageSent:
		return s.indexMessage(ctx, event)
	default:
		return nil
	}
}

func (s *SearchIndexHandler) indexTask(ctx context.Context, event *DomainEvent) error {
	version := event.OccurredAt.UnixMilli()

	if event.Payload["deleted"] == "1" {
		return s.taskESRepo.DeleteTask(ctx, event.TargetID)
	}

	task, err := s.taskDBRepo.GetTaskByID(ctx, event.TargetID)
	if err != nil {
		// 事件到达前任务已被删除，索引同步删除即可
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.taskESRepo.DeleteTask(ctx, event.TargetID)
		}
		return err
	}

	doc := &es.TaskES{
		ID:          task.ID,
		WorkspaceID: event.WorkspaceID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.AssigneeID != nil {
		doc.AssigneeID = *task.AssigneeID
		assignee, err := s.userDBRepo.GetUserByID(ctx, *task.AssigneeID)
		if err == nil {
			doc.AssigneeName = assignee.Name
		}
	}

	tagIDs, err := s.taskDBRepo.GetTaskTagIDs(ctx, task.ID)
	if err != nil {
		return err
	}
	if len(tagIDs) > 0 {
		tags, err := s.wsDBRepo.GetTagsByIDs(ctx, tagIDs)
		if err != nil {
			return err
		}
		doc.Tags = make([]string, 0, len(tags))
		for _, tag := range tags {
			doc.Tags = append(doc.Tags, tag.Name)
		}
	}

	return s.taskESRepo.IndexTask(ctx, doc, version)
}

func (s *SearchIndexHandler) indexMessage(ctx context.Context, event *DomainEvent) error {
	message, err := s.messageDBRepo.GetMessage(ctx, event.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.messageESRepo.DeleteMessage(ctx, event.TargetID)
		}
		return err
	}

	doc := &es.MessageES{
		ID:          message.ID,
		WorkspaceID: event.WorkspaceID,
		SenderID:    message.SenderID,
		Content:     message.Content,
		CreatedAt:   message.CreatedAt,
	}
	if message.ProjectID != nil {
		doc.ProjectID = *message.ProjectID
	}
	if message.ConversationID != nil {
		doc.ConversationID = *message.ConversationID
	}

	sender, err := s.userDBRepo.GetUserByID(ctx, message.SenderID)
	if err == nil {
		doc.SenderName = sender.Name
	}

	return s.messageESRepo.IndexMessage(ctx, doc, event.OccurredAt.UnixMilli())
}
