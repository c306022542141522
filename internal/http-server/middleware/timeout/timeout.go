package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout adds a deadline of the given number of seconds to the request
// context. A submission that outlives it surfaces as an unknown outcome,
// not as a confirmed failure.
func Timeout(seconds int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), time.Duration(seconds)*time.Second)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
