package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rakhulsr/ecommerce-api/app/models"
	"github.com/Rakhulsr/ecommerce-api/app/services"
	"github.com/Rakhulsr/ecommerce-api/app/utils/renderer"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

const claimsKey contextKey = "auth_claims"

type TokenVerifier interface {
	VerifyToken(token string) (*services.Claims, error)
}

// RoleResolver decides the role of an already authenticated caller.
type RoleResolver interface {
	ResolveRole(ctx context.Context, claims *services.Claims) (models.Role, error)
}

// TokenRoleResolver trusts the role embedded in the verified token.
type TokenRoleResolver struct{}

func (TokenRoleResolver) ResolveRole(_ context.Context, claims *services.Claims) (models.Role, error) {
	return claims.Role, nil
}

type AuthMiddleware struct {
	verifier TokenVerifier
	rnd      *render.Render
	logger   zerolog.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, rnd *render.Render, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, rnd: rnd, logger: logger}
}

// RequireSignIn accepts "Bearer <token>" or the bare token. Every request
// either reaches next with claims in its context or gets a 401.
func (m *AuthMiddleware) RequireSignIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			renderer.Error(m.rnd, w, http.StatusUnauthorized, "missing_authorization", "Unauthorized")
			return
		}

		claims, err := m.verifier.VerifyToken(token)
		if err != nil {
			m.logger.Warn().Str("request_id", GetRequestID(r.Context())).Msg("invalid token")
			renderer.Error(m.rnd, w, http.StatusUnauthorized, "invalid_token", "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequirePermission must run after RequireSignIn.
func (m *AuthMiddleware) RequirePermission(perm models.Permission, resolver RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				renderer.Error(m.rnd, w, http.StatusUnauthorized, "missing_authorization", "Unauthorized")
				return
			}

			role, err := resolver.ResolveRole(r.Context(), claims)
			if err != nil {
				m.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("role lookup failed")
				renderer.Error(m.rnd, w, http.StatusUnauthorized, "unknown_user", "Unauthorized")
				return
			}
			if !role.Can(perm) {
				renderer.Error(m.rnd, w, http.StatusForbidden, "forbidden", "Unauthorized Access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	return header
}

func WithClaims(ctx context.Context, claims *services.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func GetClaims(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}
