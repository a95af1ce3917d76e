package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/cache"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	maxKeyLength      = 128
)

// ResponseCache stores responses by idempotency key.
type ResponseCache interface {
	Enabled() bool
	Lookup(ctx context.Context, key string) (*cache.Entry, bool, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, resp cache.Response) error
	Release(ctx context.Context, key string) error
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the first response of a mutating request carrying an
// Idempotency-Key header. Keys are scoped to the actor, method and path.
func Idempotency(store ResponseCache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(idempotencyHeader))
		if raw == "" || !store.Enabled() || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		if len(raw) > maxKeyLength {
			abortWithCode(c, http.StatusBadRequest, "invalid_input", "idempotency key is too long")
			return
		}

		actorID := ""
		if actor, ok := CurrentActor(c); ok {
			actorID = actor.ID
		}
		key := strings.Join([]string{actorID, c.Request.Method, c.Request.URL.Path, raw}, "|")
		ctx := c.Request.Context()

		entry, found, err := store.Lookup(ctx, key)
		if err != nil {
			logger.Warn("idempotency lookup failed, serving request", zap.Error(err))
			c.Next()
			return
		}
		if found {
			if entry.Pending || entry.Response == nil {
				abortWithCode(c, http.StatusConflict, "request_in_progress", "a request with this idempotency key is in progress")
				return
			}
			c.Header(replayedHeader, "true")
			c.Data(entry.Response.Status, entry.Response.ContentType, entry.Response.Body)
			c.Abort()
			return
		}

		reserved, err := store.Reserve(ctx, key)
		if err != nil {
			logger.Warn("idempotency reserve failed, serving request", zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			abortWithCode(c, http.StatusConflict, "request_in_progress", "a request with this idempotency key is in progress")
			return
		}

		writer := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		bg := context.WithoutCancel(ctx)
		status := writer.Status()
		if status >= http.StatusInternalServerError || (status == http.StatusConflict && writer.Header().Get("X-Retryable") == "true") {
			if err := store.Release(bg, key); err != nil {
				logger.Warn("idempotency release failed", zap.Error(err))
			}
			return
		}
		resp := cache.Response{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		}
		if err := store.Save(bg, key, resp); err != nil {
			logger.Warn("idempotency save failed", zap.Error(err))
		}
	}
}
