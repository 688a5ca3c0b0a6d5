package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxMerchantID contextKey = "merchant_id"
	ctxAccessID   contextKey = "access_id"
)

// MerchantIDFromContext returns the authenticated merchant, if any.
func MerchantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(ctxMerchantID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// AccessIDFromContext returns the session id (jti) of the bearer token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithMerchantID injects the merchant identifier into the context.
func WithMerchantID(ctx context.Context, merchantID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxMerchantID, merchantID)
}

func withAccessID(ctx context.Context, accessID string) context.Context {
	return context.WithValue(ctx, ctxAccessID, accessID)
}
