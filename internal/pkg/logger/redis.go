package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisSlow = 100 * time.Millisecond

// RedisLoggerHook 只记录失败与慢命令，缓存未命中不算错误
type RedisLoggerHook struct {
	slow time.Duration
}

func NewRedisLogger(slow time.Duration) *RedisLoggerHook {
	if slow <= 0 {
		slow = defaultRedisSlow
	}
	return &RedisLoggerHook{slow: slow}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "redis dial failed", "addr", addr, "latency", time.Since(start), "err", err)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		s.report(ctx, "redis command", time.Since(start), err,
			"command", cmd.Name(), "args", redactArgs(cmd))
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		s.report(ctx, "redis pipeline", time.Since(start), err, "cmd_count", len(cmds))
		return err
	}
}

func (s *RedisLoggerHook) report(ctx context.Context, what string, latency time.Duration, err error, attrs ...any) {
	attrs = append(attrs, "latency", latency)
	switch {
	case err != nil && !ignorableRedisErr(err):
		log.ErrorContext(ctx, what+" failed", append(attrs, "err", err)...)
	case err == nil && latency > s.slow:
		log.WarnContext(ctx, what+" slow", attrs...)
	}
}

// ignorableRedisErr 未命中与旧版本服务端不支持 CLIENT SETINFO
func ignorableRedisErr(err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	msg := err.Error()
	return msg == "ERR no such key" || strings.Contains(msg, "setinfo")
}

func redactArgs(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	return fmt.Sprint(cmd.Args())
}
