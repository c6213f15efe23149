package util

import (
	"Amem/internal/pkg/consts"
	"strings"
	"time"
)

// TimeLayout 保留毫秒，编辑时间至少晚 1ms 时仍可与创建时间区分
const TimeLayout = "2006-01-02 15:04:05.000"

// NormalizeContent 去掉首尾空白，返回空串表示内容无效
func NormalizeContent(raw string) string {
	return strings.TrimSpace(raw)
}

// Pagination 将 page/pageSize 归一化为 limit/offset
func Pagination(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = consts.DefaultPageSize
	}
	if pageSize > consts.MaxPageSize {
		pageSize = consts.MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// FormatTime 统一时间格式
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// PtrUint64 用于将 uint64 转换为 *uint64
func PtrUint64(i uint64) *uint64 {
	return &i
}

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}

// Deref 安全解引用
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
