// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns a logger with the request ID already attached, so every
// log line from a handler is automatically correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("stock applied", "product_id", 7, "amount", 5)
//	// → time=... level=INFO msg="stock applied" request_id=a1b2c3d4 product_id=7 amount=5
//
// When LOG_MONGO_URI is configured, EnableMongo additionally mirrors every
// record into a MongoDB collection through an asynchronous sink.
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/stockpile-io/stockpile/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stdout, opts) // structured JSON for log aggregators
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stdout, opts) // human-readable for dev
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// EnableMongo attaches the asynchronous MongoDB sink alongside the current
// handler. Returns a close function that flushes and disconnects the sink.
func EnableMongo(uri, db string) (func(), error) {
	mh, err := NewMongoHandler(uri, db, "logs", L.Handler())
	if err != nil {
		return nil, err
	}

	L = slog.New(mh)
	slog.SetDefault(L)
	return func() { _ = mh.Close() }, nil
}

// ctxKey is the unexported key under which the middleware stores a
// per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the per-request *slog.Logger injected by the Logger
// middleware (pre-tagged with request_id), or the base logger when the
// context carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware; not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
