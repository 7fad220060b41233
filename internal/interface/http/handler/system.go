package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/pkg/response"
)

const (
	docsIndexPath = "/docs/index.html"
	healthTimeout = 2 * time.Second
)

// Pinger 可探活的依赖(数据库)
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler 首页跳转与健康检查
type SystemHandler struct {
	db Pinger
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

// Home 跳转到Swagger UI
// @Summary  跳转到API文档
// @Tags     system
// @Success  307
// @Router   / [get]
func (h *SystemHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, docsIndexPath)
}

// Ping 存活检查
// @Summary  存活检查
// @Tags     system
// @Produce  json
// @Success  200 {object} map[string]string
// @Router   /ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response.OK(c, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}

// Healthz 就绪检查,数据库不可达时返回503
// @Summary  就绪检查
// @Tags     system
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} map[string]string
// @Router   /healthz [get]
func (h *SystemHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		response.Logger(c).Warn("就绪检查失败", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": "down",
		})
		return
	}

	response.OK(c, gin.H{
		"status":   "ok",
		"database": "up",
	})
}
