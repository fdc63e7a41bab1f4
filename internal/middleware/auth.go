package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mpetters/messagely/internal/auth"
	"github.com/mpetters/messagely/internal/http/respond"
)

type contextKey string

const callerKey contextKey = "caller_username"

// maxTokenBodyBytes bounds how much of a request body the middleware will
// buffer while looking for the _token field.
const maxTokenBodyBytes = 1 << 20

// Authenticator resolves the caller identity from the request token and
// rejects the request with 401 before any handler runs if it cannot. The
// token is taken from the _token query parameter, the _token field of a JSON
// body (the body is restored for the handler), or an Authorization bearer
// header.
func Authenticator(tokens *auth.TokenManager, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respond.Error(w, http.StatusUnauthorized, "missing token")
				return
			}

			username, err := tokens.Verify(token)
			if err != nil {
				log.Debugw("token rejected", "path", r.URL.Path, "error", err)
				respond.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext returns the authenticated username set by Authenticator.
func CallerFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(callerKey).(string)
	return username, ok
}

func extractToken(r *http.Request) string {
	if token := r.URL.Query().Get("_token"); token != "" {
		return token
	}
	if raw := r.Header.Get("Authorization"); strings.HasPrefix(raw, "Bearer ") {
		return strings.TrimPrefix(raw, "Bearer ")
	}
	return tokenFromBody(r)
}

// tokenFromBody peeks at a JSON body for a _token field and puts the bytes
// back so the handler can decode the body normally.
func tokenFromBody(r *http.Request) string {
	if r.Body == nil || r.Method == http.MethodGet {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxTokenBodyBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var fields struct {
		Token string `json:"_token"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	return fields.Token
}
