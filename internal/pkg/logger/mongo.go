package logger

import (
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const maxMongoCmdLen = 1000

// NewMongoMonitor 命令详情只在 debug 级别输出，慢命令与失败单独记录
func NewMongoMonitor(slow time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			log.DebugContext(ctx, "mongo command started",
				"command", evt.CommandName,
				"database", evt.DatabaseName,
				"request_id", evt.RequestID,
				"detail", truncate(evt.Command.String(), maxMongoCmdLen),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			level := log.LevelDebug
			if evt.Duration > slow {
				level = log.LevelWarn
			}
			log.Log(ctx, level, "mongo command finished",
				"command", evt.CommandName, "latency", evt.Duration, "request_id", evt.RequestID)
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "mongo command failed",
				"command", evt.CommandName, "latency", evt.Duration, "request_id", evt.RequestID, "err", evt.Failure)
		},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}
