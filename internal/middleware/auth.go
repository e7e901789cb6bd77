package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	SubjectKey     contextKey = "subject"
	PartnerCodeKey contextKey = "partner_code"
)

// Claims are the bearer token claims accepted by the API. Tokens are issued
// elsewhere; this service only verifies them.
type Claims struct {
	PartnerCode string `json:"partner_code,omitempty"`
	jwt.RegisteredClaims
}

// RequireAuth verifies an HMAC-signed bearer token and stores its subject and
// partner code on the request context.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeFailure(w, http.StatusUnauthorized, "missing authorization header", "auth_required")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeFailure(w, http.StatusUnauthorized, "invalid authorization scheme", "auth_invalid_scheme")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})

			if err != nil || !token.Valid {
				writeFailure(w, http.StatusUnauthorized, "invalid token", "auth_invalid")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			if claims.PartnerCode != "" {
				ctx = context.WithValue(ctx, PartnerCodeKey, claims.PartnerCode)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}

func GetPartnerCode(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(PartnerCodeKey).(string)
	return code, ok
}
