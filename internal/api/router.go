package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// RouterOptions HTTP 层配置
type RouterOptions struct {
	AllowOrigins   []string      // 为空时允许所有来源
	RequestTimeout time.Duration // 单次请求的整体期限，<=0 不限
	EnablePprof    bool
}

// NewRouter 注册所有路由
func NewRouter(games *GamesHandler, sources *SourcesHandler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(opts.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = opts.AllowOrigins
	}
	r.Use(cors.New(corsCfg))

	// 注册ppof 方便调试和监测性能问题
	if opts.EnablePprof {
		pprof.Register(r)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api", RequestTimeout(opts.RequestTimeout))
	apiGroup.GET("/live-games", games.ListLiveGames)
	apiGroup.GET("/game/:id", games.GetGame)
	if sources != nil {
		apiGroup.GET("/sources", sources.ListSources)
		apiGroup.GET("/diagnostics", sources.ListDiagnostics)
	}
	return r
}

// RequestTimeout 给请求 context 加上期限；客户端断开或到期时下游所有抓取一起取消
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
