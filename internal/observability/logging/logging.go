package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Environment selects log output shape: human-readable for dev, JSON for
// everything else.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module tags every record with the owning component name.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ValidateAndExtractRequestID returns the given ID when usable and mints a
// fresh one otherwise, so downstream calls always carry something traceable.
func ValidateAndExtractRequestID(requestID string) string {
	if requestID == "" || len(requestID) > 128 {
		return uuid.NewString()
	}
	return requestID
}

// NewHandler builds the process-wide slog handler.
func NewHandler(env Environment, level slog.Level, info ServiceInfo, module Module) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if env == EnvDev {
		inner = slog.NewTextHandler(os.Stderr, opts)
	} else {
		inner = slog.NewJSONHandler(os.Stderr, opts)
	}

	inner = inner.WithAttrs([]slog.Attr{
		slog.String("service", info.Name),
		slog.String("version", info.Version),
		slog.String("module", string(module)),
	})

	return &contextHandler{Handler: inner}
}

// contextHandler enriches records with context-scoped attributes: the
// request ID and, on GCP builds, the trace correlation fields.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		rec.AddAttrs(slog.String("request_id", requestID))
	}
	if attrs := gcpTraceAttrs(ctx, os.Getenv("GOOGLE_CLOUD_PROJECT")); attrs != nil {
		rec.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
