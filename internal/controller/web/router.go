package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/metrics"
	"github.com/Freeeeeet/scheduler_grading/internal/view"
)

// RouterConfig зависимости маршрутизатора
type RouterConfig struct {
	Handler      *Handler
	Tokens       TokenParser
	Users        UserLookup
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	CSRFKey      []byte
	CookieSecure bool
	Logger       *zap.Logger
}

// Setup собирает gin.Engine со всеми маршрутами сервиса
func Setup(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(cfg.Logger))
	r.Use(SecurityHeaders())
	r.Use(Metrics(cfg.Metrics))

	h := cfg.Handler

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	r.StaticFS("/static", http.FS(view.Static()))

	authorized := r.Group("")
	authorized.Use(Auth(cfg.Tokens, cfg.Users, cfg.Logger))
	authorized.Use(CSRF(cfg.CSRFKey, cfg.CookieSecure, cfg.Logger))
	{
		authorized.GET("/mod/scheduler/:cmid/grade", h.Overview)
		authorized.GET("/mod/scheduler/:cmid/grade/export", h.Export)
		authorized.POST(ActionPath, h.Update)
	}

	return r
}
