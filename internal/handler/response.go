package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/blues/cfm/internal/logic"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// LogicErrorResponse 将logic层错误映射为HTTP状态码
func LogicErrorResponse(c *gin.Context, err error) {
	var transitionErr *logic.TransitionError
	var validationErr *logic.ValidationError
	switch {
	case errors.As(err, &validationErr):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &transitionErr):
		ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, logic.ErrCampaignNotFound),
		errors.Is(err, logic.ErrRewardNotFound),
		errors.Is(err, logic.ErrSupporterNotFound),
		errors.Is(err, logic.ErrVerificationNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, logic.ErrNotOwner):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, logic.ErrScheduleTimeInPast):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}

// callerId 从请求头获取调用者用户ID，认证由外部网关完成
func callerId(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.GetHeader("X-User-Id"), 10, 64)
	return id
}
