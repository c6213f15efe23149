package kafka

import (
	"Amem/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	notifyConsumer sarama.ConsumerGroup
	notifyHandler  sarama.ConsumerGroupHandler
	topic          string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg config.KafkaConfig, handler sarama.ConsumerGroupHandler) (*ConsumerManager, error) {
	consumer, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.NotifyGroupID, newConsumerConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "create notify consumer group")
	}

	return &ConsumerManager{
		notifyConsumer: consumer,
		notifyHandler:  handler,
		topic:          cfg.CommentTopic,
	}, nil
}

// Start 启动所有消费者，ctx 取消后关闭
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.notifyConsumer.Errors() {
			log.Error("Error from notify consumer", "err", err)
		}
	}()

	go func() {
		log.Info("Notify consumer started", "topic", m.topic)
		for {
			if err := m.notifyConsumer.Consume(ctx, []string{m.topic}, m.notifyHandler); err != nil {
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
		log.Error("Failed to close notify consumer", "err", err)
	}

	return nil
}
