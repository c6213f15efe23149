package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid          = errors.New("参数错误")
	ErrContentEmpty          = errors.New("内容不能为空")
	ErrUserNotFound          = errors.New("用户不存在")
	ErrUserExist             = errors.New("用户已存在")
	ErrPasswordIncorrect     = errors.New("用户名或密码错误")
	ErrUnauthenticated       = errors.New("请先登录")
	ErrPostNotFound          = errors.New("帖子不存在")
	ErrPostCommentNotFound   = errors.New("评论不存在")
	ErrParentCommentNotFound = errors.New("回复的评论不存在")
	ErrSysBoxNotFound        = errors.New("系统通知不存在")
	ErrForbidden             = errors.New("无权操作")
	UnExpectedError          = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:          BadRequest,
	ErrContentEmpty:          BadRequest,
	ErrUserNotFound:          NotFound,
	ErrUserExist:             BadRequest,
	ErrPasswordIncorrect:     Unauthorized,
	ErrUnauthenticated:       Unauthorized,
	ErrPostNotFound:          NotFound,
	ErrPostCommentNotFound:   NotFound,
	ErrParentCommentNotFound: NotFound,
	ErrSysBoxNotFound:        NotFound,
	ErrForbidden:             Forbidden,
	UnExpectedError:          InternalServerError,
}

// StatusOf 返回错误对应的业务码，包装过的错误按 errors.Is 匹配
func StatusOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return InternalServerError, false
}
