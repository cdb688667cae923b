package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/bizadvisor/advisor/docs"
	"github.com/bizadvisor/advisor/internal/app/api/handlers"
	mw "github.com/bizadvisor/advisor/internal/app/api/middleware"
	"github.com/bizadvisor/advisor/internal/app/service/activity"
	"github.com/bizadvisor/advisor/internal/app/service/analyze"
	"github.com/bizadvisor/advisor/internal/app/service/chat"
	"github.com/bizadvisor/advisor/internal/app/service/llm"
	plansvc "github.com/bizadvisor/advisor/internal/app/service/plan"
	reviewsvc "github.com/bizadvisor/advisor/internal/app/service/review"
	subsvc "github.com/bizadvisor/advisor/internal/app/service/subscription"
	"github.com/bizadvisor/advisor/internal/platform/identity"
	"github.com/bizadvisor/advisor/internal/platform/paypal"
	cfgpkg "github.com/bizadvisor/advisor/pkg/config"
	metrics "github.com/bizadvisor/advisor/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Permissive CORS: the SPA may be served from any origin. Preflight is
	// answered 200 with no body.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		OptionsResponseStatusCode: http.StatusOK,
	}))
	// Request tracing only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log      *zap.SugaredLogger
	Cfg      *cfgpkg.Config
	LLM      *llm.Client
	Analyzer analyze.Analyzer
	Chat     *chat.Service
	Subs     *subsvc.Service
	Plans    *plansvc.Service
	Reviews  *reviewsvc.Service
	Activity *activity.Service
	PayPal   *paypal.Client
	Identity *identity.Verifier
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Prometheus metrics
	if d.Cfg != nil && d.Cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: d.Log,
		})
		p.SetListenAddress(d.Cfg.MetricsAddr)
		p.Use(r)

		d.Log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}

	// Public group: relay endpoints, catalogue reads, webhook
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub, d.LLM)
	handlers.RegisterAnalyzeRoutes(pub, d.Analyzer)
	handlers.RegisterPlanRoutes(pub, d.Plans)
	pub.GET("/reviews", handlers.ApiReviewList(d.Reviews))
	pub.POST("/webhook/paypal", handlers.ApiPayPalWebhook(d.Subs, d.PayPal, d.Log))

	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Verified-identity group
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware(), mw.AuthMiddleware(d.Identity))
	handlers.RegisterSubscriptionRoutes(apiV1, d.Subs)
	handlers.RegisterChatRoutes(apiV1, d.Chat, d.Activity)
	apiV1.POST("/reviews", handlers.ApiReviewCreate(d.Reviews))

	// Admin group: role check on the server, never from client-held state
	admin := apiV1.Group("/admin")
	admin.Use(mw.RequireAdmin())
	handlers.RegisterAdminRoutes(admin, d.Subs, d.Plans, d.Activity)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
