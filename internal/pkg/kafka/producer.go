package kafka

import (
	"Teamflow/internal/api/config"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

var producer sarama.SyncProducer

// InitProducer 初始化同步生产者
func InitProducer() error {
	kafkaCfg := config.Cfg.Kafka

	var err error
	producer, err = sarama.NewSyncProducer(kafkaCfg.Brokers, newSaramaConfig(kafkaCfg))
	if err != nil {
		log.Error("Cannot Connect to Kafka", "err", err)
		return err
	}

	log.Info("Connected to Kafka", "brokers", kafkaCfg.Brokers)
	return nil
}

// PublishEvent 发布领域事件。
// 按工作区 ID 作为分区键，保证同一工作区内事件有序。
func PublishEvent(event *DomainEvent) error {
	if producer == nil {
		return errors.New("kafka生产者未初始化")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: config.Cfg.Kafka.Topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.WorkspaceID, 10)),
		Value: sarama.ByteEncoder(value),
	}

	_, _, err = producer.SendMessage(msg)
	return err
}

// CloseProducer 关闭生产者连接
func CloseProducer() {
	if producer == nil {
		return
	}
	if err := producer.Close(); err != nil {
		log.Error("Failed to close kafka producer", "err", err)
	}
}
