package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emekaorji/cartify-backend/pkg/config"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
	"github.com/emekaorji/cartify-backend/pkg/logger"
)

const defaultTimeout = 15 * time.Second

var (
	errSecretKeyRequired = errors.New("paystack secret key is required")
	errLoggerRequired    = errors.New("paystack logger is required")
)

// Client wraps the Paystack transaction API with centralized auth, timeouts,
// and error mapping. State-mutating calls are never retried automatically.
type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
	logger     *logger.Logger
}

// NewClient initializes the Paystack wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.PaystackConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		secretKey:  secretKey,
		baseURL:    baseURL,
		logger:     logg,
	}

	logg.Info(ctx, "paystack client initialized")
	return c, nil
}

// Metadata is attached to a transaction at initialization and echoed back by
// the provider on verification and webhook events.
type Metadata struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

// InitializeParams describes a transaction to open with the provider.
type InitializeParams struct {
	Email       string
	AmountCents int64
	CallbackURL string
	Metadata    Metadata
}

// InitResult carries the provider handles for a newly opened transaction.
type InitResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult reports the provider's view of a transaction.
type VerifyResult struct {
	Reference     string
	AmountCents   int64
	GatewayStatus string
	Metadata      Metadata
}

// Succeeded reports whether the provider settled the transaction.
func (r VerifyResult) Succeeded() bool {
	return r.GatewayStatus == "success"
}

type initializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	CallbackURL string   `json:"callback_url,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string   `json:"status"`
		Reference string   `json:"reference"`
		Amount    int64    `json:"amount"`
		Metadata  Metadata `json:"metadata"`
	} `json:"data"`
}

// Initialize opens a transaction with the provider. Amounts are in minor
// currency units, matching the provider contract.
func (c *Client) Initialize(ctx context.Context, params InitializeParams) (*InitResult, error) {
	if strings.TrimSpace(params.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if params.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if strings.TrimSpace(params.Metadata.OrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "metadata order id is required")
	}

	var resp initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", initializeRequest{
		Email:       params.Email,
		Amount:      params.AmountCents,
		CallbackURL: params.CallbackURL,
		Metadata:    params.Metadata,
	}, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("paystack initialize rejected: %s", resp.Message))
	}
	if resp.Data.Reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack initialize returned no reference")
	}

	return &InitResult{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

// Verify fetches the provider's current view of the referenced transaction.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}

	var resp verifyResponse
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("paystack verify rejected: %s", resp.Message))
	}

	return &VerifyResult{
		Reference:     resp.Data.Reference,
		AmountCents:   resp.Data.Amount,
		GatewayStatus: resp.Data.Status,
		Metadata:      resp.Data.Metadata,
	}, nil
}

// ValidateSignature checks the webhook signature header against the raw
// payload using HMAC-SHA512 in constant time.
func (c *Client) ValidateSignature(payload []byte, signature string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding paystack request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building paystack request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling paystack")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading paystack response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("paystack returned status %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding paystack response")
		}
	}
	return nil
}
