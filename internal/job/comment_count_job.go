package job

import (
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/logger"
	"Amem/internal/pkg/redis"
	"Amem/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	commentCountBatch   = 500
	commentCountLockTTL = 5 * time.Minute
)

var commentCountFixed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "amem",
	Name:      "comment_count_fixed_total",
	Help:      "Posts whose comments_count was corrected by the reconcile job.",
})

// CommentCountJob 定期校正帖子评论计数，多实例部署时通过 redis 锁保证只有一个实例执行
type CommentCountJob struct {
	postSvc service.PostService
}

func NewCommentCountJob(postSvc service.PostService) *CommentCountJob {
	return &CommentCountJob{
		postSvc: postSvc,
	}
}

func (s *CommentCountJob) Run() {
	traceID := "job-comment-count-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	locked, err := redis.TryLock(ctx, consts.CommentCountJobLock, traceID, commentCountLockTTL, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire comment count lock error", "err", err)
		return
	}
	if !locked {
		log.InfoContext(ctx, "comment count job is running elsewhere, skip")
		return
	}
	defer redis.UnLock(ctx, consts.CommentCountJobLock, traceID)

	fixed, err := s.postSvc.ReconcileCommentCounts(ctx, commentCountBatch)
	if err != nil {
		log.ErrorContext(ctx, "reconcile comment counts error", "err", err)
		return
	}
	commentCountFixed.Add(float64(fixed))
	log.InfoContext(ctx, "sync comment counts success", "fixed_count", fixed)
}
