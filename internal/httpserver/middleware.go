package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/metrics"
)

type tokenVerifier interface {
	Verify(raw string) (auth.Principal, error)
}

// requestLogger logs one line per request and exposes a request scoped
// entry to handlers.
func requestLogger(base *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := base.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		c.Set(loggerKey, entry)

		c.Next()

		fields := logrus.Fields{
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if p, ok := auth.FromContext(c.Request.Context()); ok {
			fields["customer_id"] = p.CustomerID
		}
		entry = entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}

// authenticate requires a valid bearer token and stores its principal in the
// request context.
func authenticate(tokens tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			writeError(c, domain.Unauthorizedf("Missing bearer token"))
			return
		}
		p, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			writeError(c, domain.Unauthorizedf("Invalid or expired token"))
			return
		}
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func principal(c *gin.Context) auth.Principal {
	p, _ := auth.FromContext(c.Request.Context())
	return p
}
