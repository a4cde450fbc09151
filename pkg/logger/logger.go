package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance reading LOG_LEVEL and APP_ENV
func New() *Logger {
	return NewWithOptions(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV") == "production")
}

// NewWithOptions creates a logger writing to w. Production loggers emit JSON,
// everything else uses the more readable text handler.
func NewWithOptions(w io.Writer, levelStr string, production bool) *Logger {
	level := getLogLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithSurface adds the search surface to logger context
func (l *Logger) WithSurface(surface string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("surface", surface)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Gateway logging methods

// LogGatewayRequest logs an outbound API request
func (l *Logger) LogGatewayRequest(ctx context.Context, requestID, method, path string, status int, duration time.Duration, err error) {
	attrs := []any{
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.Logger.WarnContext(ctx, "Gateway Request Failed", attrs...)
		return
	}
	l.Logger.DebugContext(ctx, "Gateway Request", attrs...)
}

// LogUnauthorized logs a global 401 eviction
func (l *Logger) LogUnauthorized(ctx context.Context, method, path string) {
	l.Logger.WarnContext(ctx,
		"Unauthorized Response: credential evicted",
		slog.String("method", method),
		slog.String("path", path),
	)
}

// Session logging methods

// LogSessionTransition logs a search session state change
func (l *Logger) LogSessionTransition(ctx context.Context, surface, from, to string, token uint64) {
	l.Logger.DebugContext(ctx,
		"Session Transition",
		slog.String("surface", surface),
		slog.String("from", from),
		slog.String("to", to),
		slog.Uint64("token", token),
	)
}

// LogSupersededResult logs a search result discarded because a newer query was issued
func (l *Logger) LogSupersededResult(ctx context.Context, surface string, token, latest uint64) {
	l.Logger.InfoContext(ctx,
		"Superseded Search Result Discarded",
		slog.String("surface", surface),
		slog.Uint64("token", token),
		slog.Uint64("latest_token", latest),
	)
}

// Booking logging methods

// LogBookingsLoaded logs a completed bookings fetch
func (l *Logger) LogBookingsLoaded(ctx context.Context, flights, hotels int) {
	l.Logger.InfoContext(ctx,
		"Bookings Loaded",
		slog.Int("flights", flights),
		slog.Int("hotels", hotels),
	)
}

// LogBookingCreated logs when a booking is created
func (l *Logger) LogBookingCreated(ctx context.Context, kind, bookingID string) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("kind", kind),
		slog.String("booking_id", bookingID),
	)
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request served by the mock API
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogAuthFailure logs failed authentication
func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.Logger.WarnContext(ctx,
		"Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
