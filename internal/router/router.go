// Package router assembles the gin engine: middleware chain, metrics,
// public and protected route groups.
package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/centek/clinic-api/internal/config"
	authhandler "github.com/centek/clinic-api/internal/handler/auth"
	doctorhandler "github.com/centek/clinic-api/internal/handler/doctor"
	healthhandler "github.com/centek/clinic-api/internal/handler/health"
	mediahandler "github.com/centek/clinic-api/internal/handler/media"
	meetinghandler "github.com/centek/clinic-api/internal/handler/meeting"
	patienthandler "github.com/centek/clinic-api/internal/handler/patient"
	statshandler "github.com/centek/clinic-api/internal/handler/stats"
	"github.com/centek/clinic-api/internal/middleware"
)

type Handlers struct {
	Auth    *authhandler.Handler
	Doctor  *doctorhandler.Handler
	Patient *patienthandler.Handler
	Meeting *meetinghandler.Handler
	Media   *mediahandler.Handler
	Stats   *statshandler.Handler
	Health  *healthhandler.Handler
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	h       Handlers
	metrics *routerMetrics
}

type routerMetrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func New(auth *middleware.AuthMiddleware, h Handlers, cfg *config.Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		h:       h,
		metrics: newRouterMetrics(),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.CORS(middleware.DefaultCORSConfig()),
	)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		engine.Use(limiter.Limit())
	}

	r.setup()
	return r
}

func (r *Router) setup() {
	r.h.Health.RegisterRoutes(r.engine)
	r.h.Media.RegisterFileRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.metrics.registry, promhttp.HandlerOpts{})))

	public := r.engine.Group("")
	r.h.Auth.RegisterPublicRoutes(public)

	protected := r.engine.Group("")
	protected.Use(r.auth.Authenticate())
	r.h.Auth.RegisterProtectedRoutes(protected)
	r.h.Doctor.RegisterRoutes(protected)
	r.h.Patient.RegisterRoutes(protected)
	r.h.Meeting.RegisterRoutes(protected)
	r.h.Media.RegisterUploadRoutes(protected)
	r.h.Stats.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func newRouterMetrics() *routerMetrics {
	registry := prometheus.NewRegistry()
	m := &routerMetrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// The route template keeps cardinality bounded; raw paths with
		// ids would explode the label set.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
