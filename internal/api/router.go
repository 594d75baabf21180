package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"absensi/internal/attendance"
	"absensi/internal/auth"
	"absensi/internal/config"
	"absensi/internal/httpmiddleware"
	"absensi/internal/live"
	"absensi/internal/report"
	"absensi/internal/session"
	"absensi/internal/store"
)

// Server wires handlers to their collaborators.
type Server struct {
	cfg        config.App
	sessions   *session.Service
	attendance *attendance.Service
	broker     live.Broker
	logo       *report.LogoFetcher
	redis      *store.Redis
	db         *store.DB
}

// NewServer creates the handler set.
func NewServer(cfg config.App, sessions *session.Service, att *attendance.Service, broker live.Broker, logo *report.LogoFetcher, redis *store.Redis, db *store.DB) *Server {
	return &Server{
		cfg:        cfg,
		sessions:   sessions,
		attendance: att,
		broker:     broker,
		logo:       logo,
		redis:      redis,
		db:         db,
	}
}

// Router builds the gin engine with middleware and all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders(s.cfg.Env))
	r.Use(httpmiddleware.NewTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.healthz)

	r.POST("/api/auth/login", s.login)
	r.POST("/api/auth/logout", s.logout)

	// Public check-in endpoints, reached from the QR code URLs.
	r.GET("/api/checkin/:sessionID", s.checkinSession)
	r.POST("/api/checkin/:sessionID", s.submitCheckin)

	admin := r.Group("/api/admin", auth.AdminOnly(s.cfg.AuthSigningKey))
	admin.POST("/sessions", s.createSession)
	admin.GET("/sessions", s.listSessions)
	admin.GET("/sessions/:id", s.getSession)
	admin.PUT("/sessions/:id", s.updateSession)
	admin.PATCH("/sessions/:id/status", s.toggleSession)
	admin.DELETE("/sessions/:id", s.deleteSession)
	admin.GET("/sessions/:id/attendances", s.listAttendances)
	admin.GET("/sessions/:id/report.pdf", s.exportPDF)
	admin.GET("/sessions/:id/report.csv", s.exportCSV)
	admin.GET("/sessions/:id/flyer.png", s.downloadFlyer)
	admin.GET("/sessions/:id/live", s.liveStream)

	return r
}

func (s *Server) healthz(c *gin.Context) {
	redisHealthy := s.redis.Healthy(c.Request.Context())
	dbHealthy := s.db.Healthy(c.Request.Context())
	status := http.StatusOK
	if !redisHealthy || !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
}

// corsMiddleware allows browser requests from the hosting frontend.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Confirm")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func securityHeaders(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if env == "production" || env == "prod" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
