package apiclient

import "context"

// TokenSource yields the bearer token for outgoing requests; "" means anonymous.
type TokenSource interface {
	Token(ctx context.Context) string
}

type StaticToken string

func (s StaticToken) Token(context.Context) string {
	return string(s)
}

type tokenKey struct{}

// WithToken attaches a per-request token that wins over the client's TokenSource.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if t, ok := ctx.Value(tokenKey{}).(string); ok {
		return t
	}
	return ""
}
