package kafka

import (
	"Amem/internal/api/config"
	"Amem/internal/pkg/logger"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// SyncPublisher 以帖子 ID 为 key 同步写入，保证同一帖子的事件有序
type SyncPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSyncPublisher(cfg config.KafkaConfig) (*SyncPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newProducerConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewPublisherWithProducer(producer, cfg.CommentTopic), nil
}

func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *SyncPublisher {
	return &SyncPublisher{producer: producer, topic: topic}
}

func (s *SyncPublisher) Publish(ctx context.Context, evt *CommentEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "marshal comment event")
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(evt.PostID, 10)),
		Value: sarama.ByteEncoder(value),
	}
	if traceID, ok := ctx.Value(logger.TraceIDKey).(string); ok {
		msg.Headers = []sarama.RecordHeader{{Key: []byte(logger.TraceIDKey), Value: []byte(traceID)}}
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrapf(err, "send %s to %s", evt.Type, s.topic)
	}
	log.DebugContext(ctx, "comment event published",
		"type", evt.Type, "partition", partition, "offset", offset)
	return nil
}

func (s *SyncPublisher) Close() error {
	return s.producer.Close()
}
