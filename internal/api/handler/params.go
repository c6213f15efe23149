package handler

import (
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/response"
	"Amem/internal/service"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// pathID 解析路径中的正整数 ID
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// pageQuery 读取 page 与 page_size，非法值交给 util.Pagination 兜底
func pageQuery(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, err := strconv.Atoi(c.Query("page_size"))
	if err != nil {
		pageSize = defaultSize
	}
	return page, pageSize
}

func currentUserID(c *gin.Context) uint64 {
	return c.GetUint64(consts.UserIDKey)
}

// bindJSON 绑定请求体，校验失败与格式错误都按参数错误返回
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			response.Error(c, err)
		} else {
			response.Error(c, service.ErrParamInvalid)
		}
		return false
	}
	return true
}
