package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// ErrorBody 错误响应结构
// Detail为字符串（业务错误）或FieldError列表（参数校验错误）
type ErrorBody struct {
	Detail interface{} `json:"detail"`
}

// MessageBody 纯消息响应
type MessageBody struct {
	Message string `json:"message"`
}

// FieldError 单个字段的校验错误
// Loc形如["body","year"]或["query","limit"]
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// OK 200响应，data直接作为响应体
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message 200响应，返回{"message": msg}
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageBody{Message: msg})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	if err := h.deleteBookUseCase.Execute(ctx, title); err != nil {
//	    response.Error(c, err)
//	    return
//	}
//
// 5xx错误只返回通用提示，内部错误写入日志
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := appErr.HTTPStatus()

	detail := appErr.Message
	if status >= http.StatusInternalServerError {
		Logger(c).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("message", appErr.Message),
			zap.Error(appErr.Err),
		)
		detail = http.StatusText(status)
	}

	_ = c.Error(err)
	c.JSON(status, ErrorBody{Detail: detail})
}

// ValidationError 422响应，返回逐字段错误
// 错误同时记入c.Errors，由日志中间件输出
func ValidationError(c *gin.Context, details []FieldError) {
	appErr := apperrors.New(apperrors.ErrCodeInvalidParams, "request validation failed")
	_ = c.Error(appErr)
	c.JSON(appErr.HTTPStatus(), ErrorBody{Detail: details})
}

// =========================================
// 日志注入
// =========================================

const loggerKey = "zap_logger"

// SetLogger 将请求级logger写入gin.Context（由日志中间件调用）
func SetLogger(c *gin.Context, l *zap.Logger) {
	c.Set(loggerKey, l)
}

// Logger 取出请求级logger，没有则返回Nop
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}
