package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/middlemost/wishlist"
)

// maxTokenBodySize limits how much of a request body is buffered when
// looking for a token field.
const maxTokenBodySize = 1 << 20

// logRequests attaches a request-scoped logger to the context and logs one
// line per completed request.
func logRequests(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := logger.With("request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(NewContext(r.Context(), l))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			l.InfoContext(r.Context(), "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// allowAllOrigins permits cross-origin requests from any origin.
func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Auth-Token")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the bearer token on the request to a user and
// attaches it to the request context.
func authenticate(tokenService wishlist.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := requestToken(r)
			if err != nil {
				Error(w, r, err)
				return
			} else if token == "" {
				Error(w, r, wishlist.ErrTokenRequired)
				return
			}

			user, err := tokenService.ParseToken(token)
			if err != nil {
				Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(wishlist.NewContext(r.Context(), user)))
		})
	}
}

// requestToken returns the token from the Authorization header, the
// x-auth-token header or the "token" field of a JSON body, in that order.
// The body is restored for the next handler.
func requestToken(r *http.Request) (string, error) {
	if v := r.Header.Get("Authorization"); strings.HasPrefix(v, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(v, "Bearer ")), nil
	} else if v := r.Header.Get("x-auth-token"); v != "" {
		return v, nil
	} else if r.Body == nil {
		return "", nil
	}

	buf, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBodySize))
	if err != nil {
		return "", wishlist.ErrInvalidRequestBody
	}
	r.Body = io.NopCloser(bytes.NewReader(buf))

	var body struct {
		Token string `json:"token"`
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return "", nil
	} else if err := json.Unmarshal(buf, &body); err != nil {
		return "", nil
	}
	return body.Token, nil
}
