package context

import stdcontext "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	runIDKey     ctxKey = "run_id"
)

// WithRequestID stores the inbound request identifier.
func WithRequestID(ctx stdcontext.Context, requestID string) stdcontext.Context {
	return stdcontext.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request identifier or "".
func RequestIDFromContext(ctx stdcontext.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithRunID tags work belonging to one dataset generation run.
func WithRunID(ctx stdcontext.Context, runID string) stdcontext.Context {
	return stdcontext.WithValue(ctx, runIDKey, runID)
}

func RunIDFromContext(ctx stdcontext.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(runIDKey).(string)
	return value
}
