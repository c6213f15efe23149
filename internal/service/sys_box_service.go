package service

import (
	"Amem/internal/api/dto"
	"Amem/internal/pkg/mongo"
	"Amem/internal/pkg/util"
	"Amem/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const systemSenderName = "系统通知"

type SysBoxService interface {
	GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
}

type sysBoxServiceImpl struct {
	sysBoxRepo mongo.SysBoxRepo
	userRepo   repository.UserRepo
}

func NewSysBoxService(sysBox mongo.SysBoxRepo, user repository.UserRepo) SysBoxService {
	return &sysBoxServiceImpl{
		sysBoxRepo: sysBox,
		userRepo:   user,
	}
}

// GetNotificationList 获取通知列表并补全发送者昵称
func (s *sysBoxServiceImpl) GetNotificationList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.SysBoxDTO, error) {
	limit, offset := util.Pagination(page, pageSize)

	list, err := s.sysBoxRepo.GetNotificationList(ctx, userID, int64(limit), int64(offset))
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(list))
	for _, m := range list {
		if m.SenderID > 0 {
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	senders, err := s.userRepo.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		log.WarnContext(ctx, "load notification senders failed", "userID", userID, "err", err)
	}

	res := make([]*dto.SysBoxDTO, 0, len(list))
	for _, m := range list {
		d := &dto.SysBoxDTO{}
		_ = copier.Copy(d, m)
		d.ID = m.ID.Hex()
		d.CreatedAt = util.FormatTime(m.CreatedAt)

		// SenderID 为 0 代表系统发送
		if m.SenderID == 0 {
			d.SenderName = systemSenderName
		} else if u, ok := senders[m.SenderID]; ok {
			d.SenderName = u.Nickname
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *sysBoxServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.SysBoxUnreadDTO, error) {
	count, err := s.sysBoxRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SysBoxUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读，不能操作他人的通知
func (s *sysBoxServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.sysBoxRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNotificationNotFound) {
			return ErrSysBoxNotFound
		}
		return err
	}
	if notice.ReceiverID != userID {
		return ErrForbidden
	}
	if notice.IsRead {
		return nil
	}

	err = s.sysBoxRepo.MarkAsRead(ctx, userID, objectID)
	if errors.Is(err, mongo.ErrNotificationNotFound) {
		return ErrSysBoxNotFound
	}
	return err
}

func (s *sysBoxServiceImpl) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	return s.sysBoxRepo.MarkAllAsRead(ctx, userID)
}
