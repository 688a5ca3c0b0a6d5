package middleware

import (
	"net/http"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/api/validators"
	pkgAuth "github.com/dealdesk/merchant-portal/pkg/auth"
	"github.com/dealdesk/merchant-portal/pkg/auth/session"
	"github.com/dealdesk/merchant-portal/pkg/config"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/google/uuid"
)

// Auth validates a bearer token against its live session and seeds the
// request context with the merchant id.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}
			if claims.MerchantID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing merchant"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithMerchantID(r.Context(), claims.MerchantID)
			ctx = withAccessID(ctx, claims.ID)
			if logg != nil {
				ctx = logg.WithMerchantID(ctx, claims.MerchantID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
