package controllers

import (
	"net/http"

	"github.com/dealdesk/merchant-portal/api/middleware"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/google/uuid"
)

func merchantFromRequest(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.MerchantIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing merchant")
	}
	return id, nil
}

func serviceUnavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
