package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotificationNotFound = errors.New("notification not found")

type SysBoxRepo interface {
	CreateNotifications(ctx context.Context, msgs []*SysBoxModel) error
	GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*SysBoxModel, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*SysBoxModel, error)
	MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID uint64) (int64, error)
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
}

type sysBoxRepoImpl struct {
	col *mongo.Collection
}

func NewSysBoxRepo(db *mongo.Database) SysBoxRepo {
	return &sysBoxRepoImpl{
		col: db.Collection(sysBoxCollection),
	}
}

// CreateNotifications 批量写入通知
func (s *sysBoxRepoImpl) CreateNotifications(ctx context.Context, msgs []*SysBoxModel) error {
	if len(msgs) == 0 {
		return nil
	}
	docs := make([]any, 0, len(msgs))
	for _, m := range msgs {
		docs = append(docs, m)
	}
	_, err := s.col.InsertMany(ctx, docs)
	return err
}

// GetNotificationList 分页获取用户的通知列表 (按时间倒序)
func (s *sysBoxRepoImpl) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*SysBoxModel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, bson.M{"receiver_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*SysBoxModel, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *sysBoxRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*SysBoxModel, error) {
	var msg SysBoxModel
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkAsRead 只能标记自己的通知
func (s *sysBoxRepoImpl) MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID) error {
	result, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "receiver_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead 一键已读，返回被更新的条数
func (s *sysBoxRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64) (int64, error) {
	result, err := s.col.UpdateMany(ctx,
		bson.M{"receiver_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *sysBoxRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"receiver_id": userID, "is_read": false})
}
