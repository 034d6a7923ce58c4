package kafka

import (
	"Teamflow/internal/api/config"
	"Teamflow/internal/pkg/es"
	"Teamflow/internal/pkg/mongo"
	"Teamflow/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	notifyConsumer sarama.ConsumerGroup
	notifyHandler  sarama.ConsumerGroupHandler

	searchIndexConsumer sarama.ConsumerGroup
	searchIndexHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	notificationRepo mongo.NotificationRepo,
	activityRepo mongo.ActivityRepo,
	taskESRepo es.TaskRepo,
	messageESRepo es.MessageRepo,
	taskDBRepo repository.TaskRepo,
	messageDBRepo repository.MessageRepo,
	userDBRepo repository.UserRepo,
	wsDBRepo repository.WorkspaceRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	notifyConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaNotifyConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	notifyHandler := NewNotificationHandler(notificationRepo, activityRepo)

	searchIndexConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaSearchIndexConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	searchIndexHandler := NewSearchIndexHandler(taskESRepo, messageESRepo, taskDBRepo, messageDBRepo, userDBRepo, wsDBRepo)

	return &ConsumerManager{
		notifyConsumer:      notifyConsumer,
		notifyHandler:       notifyHandler,
		searchIndexConsumer: searchIndexConsumer,
		searchIndexHandler:  searchIndexHandler,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaNotifyConsumer.Topic
		log.Info("Notification consumer started", "topic", topic)
		for {
			if err := m.notifyConsumer.Consume(ctx, []string{topic}, m.notifyHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		topic := cfg.KafkaSearchIndexConsumer.Topic
		log.Info("Search index consumer started", "topic", topic)
		for {
			if err := m.searchIndexConsumer.Consume(ctx, []string{topic}, m.searchIndexHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notifyConsumer.Close(); err != nil {
		log.Error("Failed to close notification consumer", "err", err)
	}
	if err := m.searchIndexConsumer.Close(); err != nil {
		log.Error("Failed to close search index consumer", "err", err)
	}

	return nil
}
