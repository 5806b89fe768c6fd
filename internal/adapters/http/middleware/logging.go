package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
)

// internalPrefix holds the probe and metrics routes, which are not logged.
const internalPrefix = "/-/"

// Logging logs one line per completed request at a level chosen by status:
// 5xx at error, 4xx at warn, everything else at info. Paths under /-/ and
// those listed in skip are not logged.
func Logging(logger *slog.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skipped[path]; ok || strings.HasPrefix(path, internalPrefix) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		reqLogger, ok := logging.Lookup(c.Request.Context())
		if !ok {
			reqLogger = logger
		}

		status := c.Writer.Status()
		latency := time.Since(start)

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}

		if route := c.FullPath(); route != "" && route != path {
			attrs = append(attrs, slog.String("route", route))
		}

		if q := c.Request.URL.RawQuery; q != "" {
			attrs = append(attrs, slog.String("query", q))
		}

		reqLogger.LogAttrs(c.Request.Context(), level, "request completed", attrs...)
	}
}
