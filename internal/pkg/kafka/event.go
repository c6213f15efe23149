package kafka

import (
	"context"
	"time"
)

type EventType string

const (
	EventCommentCreated EventType = "comment.created"
	EventCommentLiked   EventType = "comment.liked"
	EventPostLiked      EventType = "post.liked"
)

// CommentEvent 评论域事件，由写路径在事务提交后发出
type CommentEvent struct {
	Type            EventType `json:"type"`
	ActorID         uint64    `json:"actorId"`
	PostID          uint64    `json:"postId"`
	PostAuthorID    uint64    `json:"postAuthorId"`
	CommentID       uint64    `json:"commentId,omitempty"`
	CommentAuthorID uint64    `json:"commentAuthorId,omitempty"` // 被点赞评论的作者
	ParentID        uint64    `json:"parentId,omitempty"`
	ParentAuthorID  uint64    `json:"parentAuthorId,omitempty"` // 被回复评论的作者
	Content         string    `json:"content,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// EventPublisher 事件发布
type EventPublisher interface {
	Publish(ctx context.Context, evt *CommentEvent) error
	Close() error
}

// NopPublisher 未启用 Kafka 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *CommentEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
