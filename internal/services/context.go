package services

import "context"

type contextKey string

const (
	dynastyIDKey contextKey = "dynasty_id"
	seasonIDKey  contextKey = "season_id"
	stateKey     contextKey = "sync_state"
	requestIDKey contextKey = "request_id"
)

// WithDynastyID annotates context with the dynasty identifier.
func WithDynastyID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, dynastyIDKey, id)
}

// DynastyIDFromContext extracts the dynasty identifier if present.
func DynastyIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, dynastyIDKey)
}

// WithSeasonID annotates context with the season identifier.
func WithSeasonID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, seasonIDKey, id)
}

// SeasonIDFromContext extracts the season identifier if present.
func SeasonIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, seasonIDKey)
}

// WithState annotates context with the sync state name.
func WithState(ctx context.Context, state string) context.Context {
	if state == "" {
		return ctx
	}
	return context.WithValue(ctx, stateKey, state)
}

// StateFromContext returns the sync state name if present.
func StateFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stateKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

func int64Value(ctx context.Context, key contextKey) (int64, bool) {
	v := ctx.Value(key)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
