// Package httpapi wires the HTTP transport (Gin) to the order-intake
// pipeline, middleware, and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, logging/redaction, panic
// recovery, metrics, CORS, security headers, and admission limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/naijamart/go-order-backend/internal/config"
	"github.com/naijamart/go-order-backend/internal/dedup"
	"github.com/naijamart/go-order-backend/internal/domain"
	"github.com/naijamart/go-order-backend/internal/http/handlers"
	"github.com/naijamart/go-order-backend/internal/http/middleware"
	"github.com/naijamart/go-order-backend/internal/ratelimit"
	"github.com/naijamart/go-order-backend/internal/repo"
	"github.com/naijamart/go-order-backend/internal/services"
)

// orderRepoShim adapts the repository free functions to the
// services.OrderRepo interface expected by the OrderService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type orderRepoShim struct{}

// CreateOrder proxies repo.CreateOrder.
func (orderRepoShim) CreateOrder(ctx context.Context, db *gorm.DB, table string, o *domain.Order) (*domain.Order, error) {
	return repo.CreateOrder(ctx, db, table, o)
}

// GetOrder proxies repo.GetOrder.
func (orderRepoShim) GetOrder(ctx context.Context, db *gorm.DB, table, id string) (*domain.Order, error) {
	return repo.GetOrder(ctx, db, table, id)
}

// newAdmissionStore builds the configured admission strategy. The fixed
// window counter is the default; the token bucket closes the window-boundary
// burst loophole at the cost of different reset semantics.
func newAdmissionStore(cfg config.Config) ratelimit.AdmissionStore {
	if cfg.RateStrategy == config.RateStrategyBucket {
		return ratelimit.NewBucketLimiter(cfg.RateLimit, cfg.RateWindow, cfg.RateMaxClients)
	}
	return ratelimit.NewWindowCounter(cfg.RateLimit, cfg.RateWindow, cfg.RateMaxClients)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. db may be nil when storage is unconfigured; the intake endpoint
// then degrades to accepted-but-unrecorded responses.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. CORS and security headers
//  9. Admission limiter, scoped to the intake endpoint only
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. Order payloads are PII-heavy,
	// so the plain access logger is not used at all.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress JSON responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (dev/staging only)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: service ← repo/db/duplicate store
	dupes := dedup.NewDetector(cfg.DedupWindow, cfg.DedupMaxEntries)
	orderSvc := services.NewOrderService(db, orderRepoShim{}, dupes)
	h := handlers.New(orderSvc)

	// 9) Admission limiter, scoped to the intake endpoint. Lookups stay
	// unlimited so the thank-you page can always resolve an order id.
	admit := middleware.Admission(newAdmissionStore(cfg), middleware.ClientIdentity(), cfg.RateWindow)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api"
	{
		api.POST("/orders", admit, h.SubmitOrder)
		api.GET("/orders/:id", h.GetOrder)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
