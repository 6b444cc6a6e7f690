package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusmate/internal/core/auth"
	"campusmate/internal/transport/http/handler"
	mdw "campusmate/internal/transport/http/middleware"
)

func NewAPIEngine(
	l *zap.Logger,
	db *gorm.DB,
	jwter *auth.JWTer,
	qh *handler.QueryHandler,
	rh *handler.ResponseHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(4<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)
	// 前端和后端分开部署，沿用全开的 CORS
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")
	// 写路径兼容匿名发帖：有 token 就注入身份，没有也放行
	api.Use(mdw.AuthOptional(jwter))

	// 注册表里的功能模块（projects 等）
	MountAllAPI(api)

	mountAuthActions(api, db, jwter)

	// 提问
	api.GET("/queries", qh.List)
	api.GET("/queries/search", qh.Search)
	api.GET("/queries/stats", qh.Stats)
	api.GET("/queries/category/:category", qh.ByCategory)
	api.GET("/queries/author/:authorId", qh.ByAuthor)
	api.GET("/queries/status/:status", qh.ByStatus)
	api.GET("/queries/:id", qh.Get)
	api.POST("/queries", qh.Create)
	api.PUT("/queries/:id", qh.Update)
	api.DELETE("/queries/:id", qh.Delete)
	api.POST("/queries/:id/upvote", qh.Upvote)
	api.POST("/queries/:id/downvote", qh.Downvote)
	api.POST("/queries/:id/solve", qh.MarkSolved)

	// 回复
	api.GET("/queries/:id/responses", rh.ListByQuery)
	api.POST("/queries/:id/responses", rh.Create)
	api.PUT("/responses/:id", rh.Update)
	api.DELETE("/responses/:id", rh.Delete)
	api.POST("/responses/:id/accept", rh.Accept)

	return r
}
