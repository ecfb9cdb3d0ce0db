package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout caps the request context at the given number of seconds.
// Handlers passing the context down to the database or object storage
// get cancelled with it.
func Timeout(seconds time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), seconds*time.Second)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
