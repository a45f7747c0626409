package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emekaorji/cartify-backend/pkg/config"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
	"github.com/emekaorji/cartify-backend/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "paystack-test", Output: io.Discard})
	client, err := NewClient(context.Background(), config.PaystackConfig{
		SecretKey: "sk_test_secret",
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
	}, logg)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresSecretKey(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "paystack-test", Output: io.Discard})
	_, err := NewClient(context.Background(), config.PaystackConfig{}, logg)
	require.Error(t, err)
}

func TestInitializeSendsMetadataAndAuth(t *testing.T) {
	var gotAuth string
	var gotBody initializeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "ref_123",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Initialize(context.Background(), InitializeParams{
		Email:       "buyer@example.com",
		AmountCents: 125000,
		Metadata:    Metadata{OrderID: "order-1", UserID: "user-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, int64(125000), gotBody.Amount)
	assert.Equal(t, "order-1", gotBody.Metadata.OrderID)
	assert.Equal(t, "ref_123", result.Reference)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
}

func TestInitializeValidatesParams(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")

	_, err := client.Initialize(context.Background(), InitializeParams{
		AmountCents: 100,
		Metadata:    Metadata{OrderID: "order-1"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = client.Initialize(context.Background(), InitializeParams{
		Email:    "buyer@example.com",
		Metadata: Metadata{OrderID: "order-1"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = client.Initialize(context.Background(), InitializeParams{
		Email:       "buyer@example.com",
		AmountCents: 100,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestInitializeRejectedByProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Initialize(context.Background(), InitializeParams{
		Email:       "buyer@example.com",
		AmountCents: 100,
		Metadata:    Metadata{OrderID: "order-1"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestVerifyRoundTripsMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transaction/verify/ref_123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"status":    "success",
				"reference": "ref_123",
				"amount":    125000,
				"metadata":  map[string]any{"order_id": "order-1", "user_id": "user-1"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Verify(context.Background(), "ref_123")
	require.NoError(t, err)

	assert.True(t, result.Succeeded())
	assert.Equal(t, "ref_123", result.Reference)
	assert.Equal(t, int64(125000), result.AmountCents)
	assert.Equal(t, "order-1", result.Metadata.OrderID)
}

func TestVerifyReportsFailedCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"status":    "failed",
				"reference": "ref_123",
				"amount":    125000,
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Verify(context.Background(), "ref_123")
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
}

func TestVerifyMapsServerErrorToDependency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Verify(context.Background(), "ref_123")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestValidateSignature(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")
	payload := []byte(`{"event":"charge.success","data":{"reference":"ref_123"}}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.ValidateSignature(payload, valid))
	assert.False(t, client.ValidateSignature(payload, ""))
	assert.False(t, client.ValidateSignature(payload, "deadbeef"))
	assert.False(t, client.ValidateSignature([]byte(`tampered`), valid))
}
