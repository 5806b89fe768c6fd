// Package middleware holds the gin middleware of the quote API: request and
// correlation IDs, logging, panic recovery and timeouts.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
)

// Propagated ID headers. A request ID is per hop; a correlation ID follows
// the whole exchange, including quotes pushed to the remote server.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// gin context keys.
const (
	ContextKeyRequestID     = logging.KeyRequestID
	ContextKeyCorrelationID = logging.KeyCorrelationID
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyCorrelationID
)

// idKind binds a header to where its value is stored.
type idKind struct {
	header string
	ginKey string
	ctxKey ctxKey
	enrich func(context.Context, string) context.Context
}

var (
	requestIDKind = idKind{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		ctxKey: ctxKeyRequestID,
		enrich: logging.WithRequestID,
	}
	correlationIDKind = idKind{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		ctxKey: ctxKeyCorrelationID,
		enrich: logging.WithCorrelationID,
	}
)

// RequestID takes X-Request-ID from the request or generates a UUID, echoes
// it in the response and stores it in the gin context, the request context
// and the context logger.
func RequestID() gin.HandlerFunc {
	return requestIDKind.middleware()
}

// CorrelationID does for X-Correlation-ID what RequestID does for
// X-Request-ID.
func CorrelationID() gin.HandlerFunc {
	return correlationIDKind.middleware()
}

func (k idKind) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(k.ginKey, id)
		c.Header(k.header, id)

		ctx := context.WithValue(c.Request.Context(), k.ctxKey, id)
		c.Request = c.Request.WithContext(k.enrich(ctx, id))

		c.Next()
	}
}

// GetRequestID returns the request ID stored by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID stored by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request ID carried by ctx, or "".
// Outbound clients use it to forward the header.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation ID carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyCorrelationID)
}

// ContextWithRequestID stores a request ID in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID in ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

func idFromContext(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
