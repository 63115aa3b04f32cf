package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

// CorrelationIDHeader carries the correlation ID on both requests and
// responses. Callers may supply their own; otherwise one is minted.
const CorrelationIDHeader = "X-Correlation-ID"

type correlationKey struct{}

// CorrelationCtx returns the correlation ID stored in ctx, or "" outside
// a request handled by CorrelationIDMiddleware.
func CorrelationCtx(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// CorrelationIDMiddleware stamps every request with a correlation ID and
// reflects it in the response header. The same ID ends up in the audit
// trail and in error responses, which is what makes denials debuggable.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = xid.New().String()
		}
		w.Header().Set(CorrelationIDHeader, id)

		ctx := context.WithValue(r.Context(), correlationKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
