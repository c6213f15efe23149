package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	auditBodyLimit = 4096
	redacted       = "[redacted]"
)

// cappedBuffer 只保留前 auditBodyLimit 字节
type cappedBuffer struct {
	bytes.Buffer
}

func (b *cappedBuffer) keep(p []byte) {
	if remain := auditBodyLimit - b.Len(); remain > 0 {
		b.Write(p[:min(len(p), remain)])
	}
}

type auditWriter struct {
	gin.ResponseWriter
	body cappedBuffer
}

func (w *auditWriter) Write(p []byte) (int, error) {
	w.body.keep(p)
	return w.ResponseWriter.Write(p)
}

func (w *auditWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AuditMiddleware 记录写请求，认证接口的请求体含密码不落日志
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		reqBody := redacted
		if !strings.HasPrefix(c.Request.URL.Path, "/api/auth/") {
			reqBody = peekBody(c.Request)
		}

		w := &auditWriter{ResponseWriter: c.Writer}
		c.Writer = w
		start := time.Now()

		c.Next()

		log.InfoContext(c.Request.Context(), "audit",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.Query().Encode(),
			"req_body", reqBody,
			"status", w.Status(),
			"latency", time.Since(start),
			"res_body", w.body.String(),
		)
	}
}

// peekBody 读出请求体后放回，返回截断后的副本
func peekBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	var b cappedBuffer
	b.keep(raw)
	return b.String()
}
