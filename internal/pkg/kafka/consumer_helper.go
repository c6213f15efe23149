package kafka

import (
	"Amem/internal/pkg/logger"
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	batchSize     = 32
	flushInterval = time.Second
	maxAttempts   = 5
	firstBackoff  = 100 * time.Millisecond
	maxBackoff    = 5 * time.Second
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// consumeInBatches 攒满 batchSize 或到 flushInterval 时处理一批，批次结束后提交最后一条的 offset
func consumeInBatches(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	pending := make([]*sarama.ConsumerMessage, 0, batchSize)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		handleBatch(session, pending, logic)
		pending = make([]*sarama.ConsumerMessage, 0, batchSize)
	}

	timer := time.NewTicker(flushInterval)
	defer timer.Stop()
	for {
		select {
		case <-session.Context().Done():
			return nil
		case <-timer.C:
			flush()
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			pending = append(pending, msg)
			if len(pending) == batchSize {
				flush()
				timer.Reset(flushInterval)
			}
		}
	}
}

func handleBatch(session sarama.ConsumerGroupSession, batch []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup
	for _, msg := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			withRetry(messageContext(session.Context(), msg), msg, logic)
		}()
	}
	wg.Wait()

	session.MarkMessage(batch[len(batch)-1], "")
	session.Commit()
}

// withRetry 指数退避，超过 maxAttempts 后丢弃消息
func withRetry(ctx context.Context, msg *sarama.ConsumerMessage, logic LogicFunc) {
	backoff := firstBackoff
	for attempt := 1; ; attempt++ {
		err := logic(ctx, msg)
		if err == nil {
			return
		}
		if attempt == maxAttempts {
			log.ErrorContext(ctx, "drop message after retries",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
			return
		}
		log.WarnContext(ctx, "handle message failed, retrying", "attempt", attempt, "err", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// messageContext 从消息头恢复 trace_id
func messageContext(ctx context.Context, m *sarama.ConsumerMessage) context.Context {
	for _, h := range m.Headers {
		if h != nil && string(h.Key) == logger.TraceIDKey {
			return context.WithValue(ctx, logger.TraceIDKey, string(h.Value))
		}
	}
	return ctx
}

// DecodeEvent 解析评论事件
func DecodeEvent(msg *sarama.ConsumerMessage) (*CommentEvent, error) {
	var evt CommentEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return nil, errors.Wrap(err, "unmarshal comment event")
	}
	if evt.Type == "" {
		return nil, errors.New("event type is empty")
	}
	return &evt, nil
}
