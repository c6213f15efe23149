package logger

import (
	"context"
	log "log/slog"
)

// TeeHandler 将一条记录写给所有启用的 Handler，返回第一个错误
type TeeHandler struct {
	handlers []log.Handler
}

func (s *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range s.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (s *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var first error
	for _, h := range s.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func (s *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return s.derive(func(h log.Handler) log.Handler { return h.WithAttrs(attrs) })
}

func (s *TeeHandler) WithGroup(name string) log.Handler {
	return s.derive(func(h log.Handler) log.Handler { return h.WithGroup(name) })
}

func (s *TeeHandler) derive(fn func(log.Handler) log.Handler) *TeeHandler {
	out := make([]log.Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		out = append(out, fn(h))
	}
	return &TeeHandler{handlers: out}
}

// RemoteFilterHandler 远端只收带 trace_id 的记录，即请求链路、消费者和定时任务
type RemoteFilterHandler struct {
	next log.Handler
}

func (s *RemoteFilterHandler) Enabled(ctx context.Context, level log.Level) bool {
	return s.next.Enabled(ctx, level)
}

func (s *RemoteFilterHandler) Handle(ctx context.Context, r log.Record) error {
	if !hasNonEmptyAttr(r, TraceIDKey) {
		return nil
	}
	return s.next.Handle(ctx, r)
}

func (s *RemoteFilterHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &RemoteFilterHandler{next: s.next.WithAttrs(attrs)}
}

func (s *RemoteFilterHandler) WithGroup(name string) log.Handler {
	return &RemoteFilterHandler{next: s.next.WithGroup(name)}
}

func hasNonEmptyAttr(r log.Record, key string) bool {
	found := false
	r.Attrs(func(a log.Attr) bool {
		found = a.Key == key && a.Value.String() != ""
		return !found
	})
	return found
}
