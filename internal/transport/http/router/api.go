package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/saharaestate/backend/internal/core/auth"
	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/internal/service"
	mdw "github.com/saharaestate/backend/internal/transport/http/middleware"
)

// APIDeps 用户端引擎的全部依赖，cmd 里组装一次后传入
type APIDeps struct {
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Users    domain.UserRepository
	Auth     *service.AuthService
	User     *service.UserService
	Listings *service.ListingService
	Reports  *service.ReportService
}

func NewAPIEngine(d APIDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimitPerIP(50, 100),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	// 健康检查 & 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 公共分组：带令牌则挂身份（浏览记录/搜索历史要用），无令牌照常放行
	public := api.Group("")
	public.Use(mdw.MaybeAuthenticate(d.JWT, d.Users))

	// 鉴权分组：两段式流水线第一段，之后的 handler 一定能拿到完整身份
	authed := api.Group("")
	authed.Use(mdw.Authenticate(d.JWT, d.Users))

	mountAuthActions(public, d)
	mountUserActions(public, authed, d)
	mountListingActions(public, authed, d)
	mountReportRoutes(authed, d)

	return r
}
