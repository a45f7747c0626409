package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/emekaorji/cartify-backend/api/responses"
	"github.com/emekaorji/cartify-backend/api/validators"
	paymentsvc "github.com/emekaorji/cartify-backend/internal/payments"
	"github.com/emekaorji/cartify-backend/pkg/config"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
	"github.com/emekaorji/cartify-backend/pkg/logger"
)

const paystackSignatureHeader = "x-paystack-signature"

type signatureValidator interface {
	ValidateSignature(payload []byte, signature string) bool
}

// PaymentInitialize opens a gateway transaction for one of the caller's orders.
func PaymentInitialize(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentsvc.InitializeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Initialize(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// PaymentVerify polls the provider for a reference and reconciles on success.
func PaymentVerify(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var body paymentsvc.VerifyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		outcome, err := svc.Verify(r.Context(), body.Reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, outcome)
	}
}

// PaymentCallback lands the browser after checkout. The status is always
// re-verified against the provider; the query string is never trusted.
func PaymentCallback(svc *paymentsvc.Service, frontend config.FrontendConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := strings.TrimSpace(r.URL.Query().Get("reference"))
		if reference == "" {
			reference = strings.TrimSpace(r.URL.Query().Get("trxref"))
		}
		if svc == nil || reference == "" {
			http.Redirect(w, r, frontend.PaymentRedirect(frontend.PaymentErrorURL, reference), http.StatusFound)
			return
		}

		outcome, err := svc.Verify(r.Context(), reference)
		switch {
		case err != nil:
			if logg != nil {
				logg.Warn(logg.WithReference(r.Context(), reference), "payment callback verification failed")
			}
			http.Redirect(w, r, frontend.PaymentRedirect(frontend.PaymentErrorURL, reference), http.StatusFound)
		case outcome.Settled:
			http.Redirect(w, r, frontend.PaymentRedirect(frontend.PaymentSuccessURL, reference), http.StatusFound)
		default:
			http.Redirect(w, r, frontend.PaymentRedirect(frontend.PaymentFailedURL, reference), http.StatusFound)
		}
	}
}

// PaystackWebhook handles provider deliveries. The signature is checked
// against the raw body before anything is decoded.
func PaystackWebhook(svc *paymentsvc.Service, validator signatureValidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if validator == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway client unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		// Unsigned deliveries are rejected before any internal state is
		// consulted, service wiring included.
		signature := r.Header.Get(paystackSignatureHeader)
		if signature == "" || !validator.ValidateSignature(payload, signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event paymentsvc.WebhookEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		if err := svc.HandleWebhook(ctx, event); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
