// Package httpapi exposes the ledger and the user directory over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jrose1022/SubTrack/internal/ledger"
	"github.com/jrose1022/SubTrack/internal/session"
	"github.com/jrose1022/SubTrack/internal/users"
	"go.uber.org/zap"
)

type Server struct {
	ledger   *ledger.Ledger
	users    *users.Service
	verifier *session.Verifier
	resolver *session.Resolver
	log      *zap.Logger
}

func NewServer(l *ledger.Ledger, us *users.Service, verifier *session.Verifier, resolver *session.Resolver, log *zap.Logger) *Server {
	return &Server{ledger: l, users: us, verifier: verifier, resolver: resolver, log: log}
}

// Router builds the gin engine with every route mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Registration only needs a verified identity; everything else needs a profile.
	authed := api.Group("", s.authenticate)
	authed.POST("/profile", s.register)

	member := authed.Group("", s.loadSession)
	member.GET("/profile", s.getProfile)
	member.PUT("/profile", s.updateProfile)
	member.GET("/me/transactions", s.myTransactions)
	member.GET("/me/balance", s.myBalance)

	admin := member.Group("/admin", requireAdmin)
	admin.GET("/users", s.listUsers)
	admin.PUT("/users/:id/role", s.setRole)
	admin.PUT("/users/:id/status", s.setStatus)
	admin.GET("/balances/:auth_id", s.userBalance)
	admin.POST("/dues", s.assessDues)
	admin.GET("/transactions", s.listTransactions)
	admin.GET("/transactions/:id", s.getTransaction)
	admin.POST("/transactions/:id/payments", s.applyPayment)
	admin.GET("/reports/monthly", s.monthlyReport)

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if sess, ok := session.FromContext(c.Request.Context()); ok {
			fields = append(fields, zap.String("auth_id", sess.AuthID))
		}
		if c.Writer.Status() >= 500 {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}
