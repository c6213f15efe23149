package logger

import (
	"Amem/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"strings"
	"time"
)

var LogWriter io.Writer = os.Stdout

// InitLogger 初始化全局 slog：标准输出 JSON，配置了 logstash 时同时上报带 trace_id 的日志
func InitLogger(cfg config.LogstashConfig) {
	level := ParseLevel(cfg.Level)
	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: level})

	var finalHandler log.Handler = hStdout

	if cfg.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Address, 3*time.Second)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: level}).
				WithAttrs([]log.Attr{
					log.String("target_index", cfg.Index),
					log.String("log_token", cfg.Token),
				})

			finalHandler = &TeeHandler{
				handlers: []log.Handler{hStdout, &RemoteFilterHandler{next: hRemote}},
			}
			LogWriter = io.MultiWriter(os.Stdout, conn)
		} else {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "err", err)
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
}

func ParseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
