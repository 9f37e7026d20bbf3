package controllers

import (
	"net/http"

	"github.com/scraperite/storefront-backend/api/responses"
	"github.com/scraperite/storefront-backend/api/validators"
	checkoutsvc "github.com/scraperite/storefront-backend/internal/checkout"
	"github.com/scraperite/storefront-backend/pkg/logger"
)

// checkoutFailedBody is the exact failure payload the storefront client
// matches on, so it bypasses the standard error envelope.
var checkoutFailedBody = map[string]string{"error": "Error creating checkout session"}

// CreateCheckoutSession starts a hosted Stripe checkout for the submitted cart.
func CreateCheckoutSession(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteRaw(w, http.StatusInternalServerError, checkoutFailedBody)
			return
		}

		var payload checkoutsvc.SessionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			if logg != nil {
				logg.Error(ctx, "checkout request rejected", err)
			}
			responses.WriteRaw(w, http.StatusInternalServerError, checkoutFailedBody)
			return
		}

		out, err := svc.CreateSession(ctx, payload)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "checkout session not created", err)
			}
			responses.WriteRaw(w, http.StatusInternalServerError, checkoutFailedBody)
			return
		}

		responses.WriteRaw(w, http.StatusOK, out)
	}
}
