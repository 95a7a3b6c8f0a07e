package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/laberr/internal/core"
)

// WithRequestMetadata adds client IP and User-Agent to ctx so background
// proposal forwards can log who submitted them.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // Already rewritten by TrustedRealIP
	ua := r.Header.Get("User-Agent")
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, ua)
	return ctx
}
