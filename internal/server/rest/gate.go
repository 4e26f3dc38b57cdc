package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"github.com/dmitrijs2005/photoalbum/internal/server/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenGate admits requests carrying a valid bearer token and stores the
// decoded claims in the request context. A missing header or token is
// answered with 401, a token that fails verification with 403. The wrapped
// handler never runs for rejected requests.
func TokenGate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
			if !ok {
				writeError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			claims, err := auth.ParseToken(token, secret)
			if err != nil {
				writeError(w, http.StatusForbidden, msgForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The token is the second space-separated segment; anything
// after it is ignored.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) < 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
		return "", false
	}
	return parts[1], parts[1] != ""
}

// ClaimsFromContext returns the claims attached by TokenGate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}
