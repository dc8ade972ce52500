package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aarogyam-agencies/storefront-backend/api/middleware"
	"github.com/aarogyam-agencies/storefront-backend/api/responses"
	"github.com/aarogyam-agencies/storefront-backend/api/validators"
	checkoutsvc "github.com/aarogyam-agencies/storefront-backend/internal/checkout"
	pkgerrors "github.com/aarogyam-agencies/storefront-backend/pkg/errors"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=10"`
	Address string `json:"address" validate:"required,min=10"`
}

// Checkout turns the shopper's cart into an order. Guests check out too;
// a signed-in user gets the order attached to their account.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var userID *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if parsed, err := uuid.Parse(raw); err == nil {
				userID = &parsed
			}
		}

		result, err := svc.Execute(r.Context(), token, userID, checkoutsvc.CheckoutInput{
			Name:    payload.Name,
			Email:   payload.Email,
			Phone:   payload.Phone,
			Address: payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
