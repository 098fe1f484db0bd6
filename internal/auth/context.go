package auth

import "context"

type contextKey string

const callerContextKey contextKey = "gateway_caller"

// Caller identifies an authenticated client for logging and rate limiting.
// ID is derived from the presented token, never the token itself.
type Caller struct {
	ID string
}

func ContextWithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

func CallerFromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(*Caller)
	return caller, ok
}
