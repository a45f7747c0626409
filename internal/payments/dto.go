package payments

import (
	"github.com/google/uuid"

	"github.com/emekaorji/cartify-backend/pkg/paystack"
)

// InitializeRequest is the body accepted by the payment initialize endpoint.
type InitializeRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Email   string `json:"email" validate:"required,email"`
}

// VerifyRequest is the body accepted by the synchronous verify endpoint.
type VerifyRequest struct {
	Reference string `json:"reference" validate:"required"`
}

// InitializeResult carries the provider handles back to the client.
type InitializeResult struct {
	AuthorizationURL string    `json:"authorization_url"`
	AccessCode       string    `json:"access_code"`
	Reference        string    `json:"reference"`
	OrderID          uuid.UUID `json:"order_id"`
	AmountCents      int64     `json:"amount_cents"`
}

// VerifyOutcome reports the provider's view plus the local reconciliation.
type VerifyOutcome struct {
	Reference     string    `json:"reference"`
	GatewayStatus string    `json:"gateway_status"`
	Settled       bool      `json:"settled"`
	OrderID       uuid.UUID `json:"order_id,omitempty"`
	AmountCents   int64     `json:"amount_cents"`
}

// WebhookEvent is the decoded provider webhook payload.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string            `json:"reference"`
		Amount    int64             `json:"amount"`
		Status    string            `json:"status"`
		Metadata  paystack.Metadata `json:"metadata"`
	} `json:"data"`
}
