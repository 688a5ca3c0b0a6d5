package middleware

import (
	"context"
	"net/http"

	"github.com/dealdesk/merchant-portal/api/responses"
	"github.com/dealdesk/merchant-portal/internal/settings"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	"github.com/google/uuid"
)

type settingsLoader interface {
	Get(ctx context.Context, merchantID uuid.UUID) (settings.Settings, error)
}

// Settings loads the merchant's persisted UI settings once per request.
// It must run after Auth.
func Settings(loader settingsLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			merchantID, ok := MerchantIDFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing merchant"))
				return
			}
			current, err := loader.Get(r.Context(), merchantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(settings.WithSettings(r.Context(), current)))
		})
	}
}
