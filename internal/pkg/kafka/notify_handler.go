package kafka

import (
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const previewLen = 100

// NotifyHandler 消费评论事件并写入站内通知
type NotifyHandler struct {
	sysBoxRepo mongo.SysBoxRepo
}

func NewNotifyHandler(sysBox mongo.SysBoxRepo) *NotifyHandler {
	return &NotifyHandler{sysBoxRepo: sysBox}
}

func (s *NotifyHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer setup")
	return nil
}

func (s *NotifyHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("notify consumer cleanup")
	return nil
}

func (s *NotifyHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("notify consume claim", "topic", claim.Topic(), "partition", claim.Partition())
	if err := consumeInBatches(session, claim, s.logic); err != nil {
		log.Error("notify process batch error", "err", err)
		return err
	}
	return nil
}

func (s *NotifyHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	evt, err := DecodeEvent(msg)
	if err != nil {
		// 格式错误的消息重试也无意义
		log.WarnContext(ctx, "skip malformed event", "offset", msg.Offset, "err", err)
		return nil
	}
	return s.Handle(ctx, evt)
}

// Handle 根据事件生成通知，不给自己发通知
func (s *NotifyHandler) Handle(ctx context.Context, evt *CommentEvent) error {
	return s.sysBoxRepo.CreateNotifications(ctx, BuildNotifications(evt))
}

// BuildNotifications 事件到通知的映射
func BuildNotifications(evt *CommentEvent) []*mongo.SysBoxModel {
	var res []*mongo.SysBoxModel
	now := evt.OccurredAt
	if now.IsZero() {
		now = time.Now()
	}

	newNotice := func(receiver uint64, typ int8, payload map[string]any) *mongo.SysBoxModel {
		return &mongo.SysBoxModel{
			ReceiverID: receiver,
			SenderID:   evt.ActorID,
			Type:       typ,
			TargetID:   evt.PostID,
			Content:    preview(evt.Content),
			Payload:    payload,
			IsRead:     false,
			CreatedAt:  now,
		}
	}

	switch evt.Type {
	case EventCommentCreated:
		payload := map[string]any{"comment_id": evt.CommentID}
		if evt.ParentAuthorID != 0 && evt.ParentAuthorID != evt.ActorID {
			p := map[string]any{"comment_id": evt.CommentID, "parent_id": evt.ParentID}
			res = append(res, newNotice(evt.ParentAuthorID, consts.NotifyCommentReply, p))
		}
		// 帖子作者同时是被回复者时只发一条
		if evt.PostAuthorID != 0 && evt.PostAuthorID != evt.ActorID && evt.PostAuthorID != evt.ParentAuthorID {
			res = append(res, newNotice(evt.PostAuthorID, consts.NotifyPostComment, payload))
		}
	case EventCommentLiked:
		if evt.CommentAuthorID != 0 && evt.CommentAuthorID != evt.ActorID {
			res = append(res, newNotice(evt.CommentAuthorID, consts.NotifyCommentLike, map[string]any{"comment_id": evt.CommentID}))
		}
	case EventPostLiked:
		if evt.PostAuthorID != 0 && evt.PostAuthorID != evt.ActorID {
			res = append(res, newNotice(evt.PostAuthorID, consts.NotifyPostLike, nil))
		}
	}
	return res
}

func preview(content string) string {
	r := []rune(content)
	if len(r) <= previewLen {
		return content
	}
	return string(r[:previewLen]) + "..."
}
