package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/domain"
	"gitlab.com/codearena.net/internal/handlers/response"
	"gitlab.com/codearena.net/internal/static/errs"
)

const signingMethod = "HS256"

type ctxKey struct{}

type payloadKey struct{}

type MiddlewareProvider struct {
	jwt    primary.JWTService
	logger primary.Logger
}

func New(jwt primary.JWTService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwt:    jwt,
		logger: logger,
	}
}

// WithUserID stores the authenticated user on the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns "" when the request was not authenticated
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(ctxKey{}).(string)
	return userID
}

// WithAuthPayload stores the verified claims on the context
func WithAuthPayload(ctx context.Context, payload *domain.AuthPayload) context.Context {
	return context.WithValue(WithUserID(ctx, payload.UserID), payloadKey{}, payload)
}

// AuthPayloadFromContext returns nil when the request was not authenticated
func AuthPayloadFromContext(ctx context.Context) *domain.AuthPayload {
	payload, _ := ctx.Value(payloadKey{}).(*domain.AuthPayload)
	return payload
}

func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, errs.MissingAuthHeader)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		ok, err := m.jwt.VerifyTokenHMAC(r.Context(), tokenString, signingMethod)
		if err != nil || !ok {
			m.logger.Debug("Rejected token", "path", r.URL.Path, "error", err)
			unauthorized(w, errs.InvalidToken)
			return
		}

		payload, err := m.jwt.DecodeTokenPayload(r.Context(), tokenString)
		if err != nil {
			unauthorized(w, errs.InvalidToken)
			return
		}
		if payload.UserID == "" {
			unauthorized(w, errs.MissingUserClaim)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuthPayload(r.Context(), &payload)))
	})
}

// RequirePermission must run after JWTMiddleware; it answers 403 when the
// token does not carry perm
func (m *MiddlewareProvider) RequirePermission(perm string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := AuthPayloadFromContext(r.Context())
			if payload == nil || !payload.HasPermission(perm) {
				m.logger.Warn("Permission denied", "path", r.URL.Path, "userId", UserIDFromContext(r.Context()), "permission", perm)
				response.WriteError(w, response.ErrorMessage{
					Message:    errs.MissingPermission.Error(),
					StatusCode: http.StatusForbidden,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	response.WriteError(w, response.ErrorMessage{
		Message:    err.Error(),
		StatusCode: http.StatusUnauthorized,
	})
}
