package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookshelf/docs" // 注册OpenAPI文档
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// New 创建Gin引擎并注册全部路由
//
// 路由表:
//
//	GET    /                307 → /docs/index.html
//	GET    /docs/*any       Swagger UI
//	GET    /ping            存活检查
//	GET    /healthz         就绪检查
//	GET    /metrics         Prometheus指标
//	POST   /books/          创建图书
//	GET    /books/          查询图书列表
//	PUT    /books/:title    更新图书
//	DELETE /books/:title    删除图书
func New(
	cfg *config.Config,
	logger *zap.Logger,
	bookHandler *handler.BookHandler,
	systemHandler *handler.SystemHandler,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	// 书名可以包含/,按原始路径匹配后再解码参数
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(
		middleware.Tracing(),
		middleware.Logger(logger, cfg.Server.SlowThreshold),
		middleware.Metrics(),
		middleware.Recovery(),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorBody{Detail: "Not Found"})
	})

	// 系统路由
	r.GET("/", systemHandler.Home)
	r.GET("/ping", systemHandler.Ping)
	r.GET("/healthz", systemHandler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 图书模块
	books := r.Group("/books")
	{
		books.POST("/", bookHandler.CreateBook)
		books.GET("/", bookHandler.ListBooks)
		books.PUT("/:title", bookHandler.UpdateBook)
		books.DELETE("/:title", bookHandler.DeleteBook)
	}

	return r
}
