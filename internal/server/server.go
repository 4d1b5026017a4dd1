package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/telco360/internal/config"
	"github.com/smallbiznis/telco360/internal/dashboard"
	"github.com/smallbiznis/telco360/internal/observability"
	obsmiddleware "github.com/smallbiznis/telco360/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/telco360/internal/observability/metrics"
	obstracing "github.com/smallbiznis/telco360/internal/observability/tracing"
	ordersdomain "github.com/smallbiznis/telco360/internal/orders/domain"
	"github.com/smallbiznis/telco360/internal/providers/pdf"
	"github.com/smallbiznis/telco360/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the gin engine and the Server and starts listening. Apps
// pick their routes with an fx.Invoke over *Server.
var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) (*gin.Engine, error) {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r, nil
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	ordersSvc     ordersdomain.Service
	dashboardSvc  *dashboard.Service
	pdf           pdf.Provider
	reloadLimiter *ratelimit.ReloadLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	OrdersSvc     ordersdomain.Service     `optional:"true"`
	DashboardSvc  *dashboard.Service       `optional:"true"`
	PDF           pdf.Provider             `optional:"true"`
	ReloadLimiter *ratelimit.ReloadLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           log.Named("http.server"),
		ordersSvc:     p.OrdersSvc,
		dashboardSvc:  p.DashboardSvc,
		pdf:           p.PDF,
		reloadLimiter: p.ReloadLimiter,
		obsMetrics:    p.ObsMetrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// RegisterOrdersRoutes mounts the orders admin form and the orders JSON API.
func (s *Server) RegisterOrdersRoutes() {
	if s.ordersSvc == nil {
		s.log.Warn("orders service not provided, skipping orders routes")
		return
	}

	admin := s.engine.Group("/admin")
	admin.GET("/orders", s.OrdersPage)
	admin.POST("/orders", s.SubmitOrderForm)
	admin.POST("/orders/delete", s.SubmitDeleteForm)

	api := s.engine.Group("/api")
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrderByID)
	api.PUT("/orders/:id", s.PutOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
}

// RegisterDashboardRoutes mounts the dashboard pages, its JSON API and the
// customer report.
func (s *Server) RegisterDashboardRoutes() {
	if s.dashboardSvc == nil {
		s.log.Warn("dashboard service not provided, skipping dashboard routes")
		return
	}

	ui := s.engine.Group("/dashboard")
	ui.GET("", s.DashboardIndex)
	ui.GET("/:page", s.DashboardPage)
	ui.GET("/customers/:id/report.pdf", s.CustomerReport)

	api := s.engine.Group("/api/dashboard")
	api.GET("/pages", s.ListDashboardPages)
	api.GET("/pages/:page", s.GetDashboardPage)
	api.GET("/customers", s.SearchCustomers)
	api.GET("/customers/:id", s.GetDashboardCustomer)
	api.GET("/summary", s.DatasetSummary)
	api.POST("/reload", s.ReloadRateLimit(), s.ReloadDataset)
}

// RegisterFallback sends unknown paths to JSON 404s and the root to whichever
// UI is mounted.
func (s *Server) RegisterFallback() {
	s.engine.GET("/", func(c *gin.Context) {
		switch {
		case s.dashboardSvc != nil:
			c.Redirect(http.StatusFound, "/dashboard")
		case s.ordersSvc != nil:
			c.Redirect(http.StatusFound, "/admin/orders")
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		}
	})
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
