package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"bank-ledger-go/internal/models"

	"github.com/bwmarrin/snowflake"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLog keeps the most recent requests in a fixed-size ring.
type RequestLog struct {
	mu      sync.Mutex
	node    *snowflake.Node
	entries []models.RequestLogEntry
	next    int
	full    bool
	now     func() time.Time
}

// NewRequestLog returns nil when capacity is zero, which disables request logging.
func NewRequestLog(capacity int, nodeId int64) (*RequestLog, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("request log capacity cannot be negative: %d", capacity)
	}
	if capacity == 0 {
		return nil, nil
	}

	node, err := snowflake.NewNode(nodeId)
	if err != nil {
		return nil, fmt.Errorf("unable to create id node %d: %w", nodeId, err)
	}

	return &RequestLog{
		node:    node,
		entries: make([]models.RequestLogEntry, capacity),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (l *RequestLog) Record(entry models.RequestLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Id = l.node.Generate().String()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns the retained entries, oldest first.
func (l *RequestLog) Recent() []models.RequestLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		out := make([]models.RequestLogEntry, l.next)
		copy(out, l.entries[:l.next])
		return out
	}

	out := make([]models.RequestLogEntry, 0, len(l.entries))
	out = append(out, l.entries[l.next:]...)
	out = append(out, l.entries[:l.next]...)
	return out
}

func (l *RequestLog) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := l.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		l.Record(models.RequestLogEntry{
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     statusOf(ww),
			DurationMs: l.now().Sub(start).Milliseconds(),
			Timestamp:  start,
		})
	})
}

// requestLogger writes one structured line per request to the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		zap.L().Info("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", statusOf(ww)),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("remote_addr", r.RemoteAddr))
	})
}

// recoverer turns a handler panic into a logged, enveloped 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			zap.L().Error("Handler panicked",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Any("panic", rec),
				zap.Stack("stack"))
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}

func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
