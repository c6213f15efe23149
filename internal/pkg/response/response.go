package response

import (
	"Amem/internal/api/dto"
	"Amem/internal/service"
	stdjson "encoding/json"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail HTTP 状态码与业务码一致
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, dto.Response{
		Code:    code,
		Message: message,
	})
}

// Error 按错误类型选择业务码，未登记的错误记录日志后统一返回 500
func Error(c *gin.Context, err error) {
	code, message := classify(err)
	if code == InternalServerError {
		log.ErrorContext(c.Request.Context(), "unhandled error", "path", c.FullPath(), "err", err)
	}
	Fail(c, code, message)
}

func classify(err error) (int, string) {
	var (
		ve        validator.ValidationErrors
		goccyType *json.UnmarshalTypeError
		stdType   *stdjson.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &ve):
		return BadRequest, service.ErrParamInvalid.Error()
	case errors.As(err, &goccyType), errors.As(err, &stdType):
		return BadRequest, "Json错误"
	}

	if code, ok := service.StatusOf(err); ok {
		return code, err.Error()
	}
	return InternalServerError, service.UnExpectedError.Error()
}
