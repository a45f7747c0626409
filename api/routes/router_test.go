package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/emekaorji/cartify-backend/internal/auth"
	cartsvc "github.com/emekaorji/cartify-backend/internal/cart"
	"github.com/emekaorji/cartify-backend/internal/catalog"
	ordersvc "github.com/emekaorji/cartify-backend/internal/orders"
	pkgauth "github.com/emekaorji/cartify-backend/pkg/auth"
	"github.com/emekaorji/cartify-backend/pkg/config"
	"github.com/emekaorji/cartify-backend/pkg/enums"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubValidator struct{ ok bool }

func (s stubValidator) ValidateSignature([]byte, string) bool {
	return s.ok
}

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{}, nil
}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

type stubCatalogService struct{}

func (stubCatalogService) List(context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (stubCatalogService) FindByID(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (stubCatalogService) Create(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) Update(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) Delete(context.Context, uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) Get(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) AddItem(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) UpdateItemQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) RemoveItem(context.Context, uuid.UUID, uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) Clear(context.Context, uuid.UUID) error {
	return nil
}

type stubOrderService struct{}

func (stubOrderService) Create(context.Context, uuid.UUID, ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) Get(context.Context, uuid.UUID, ordersvc.Actor) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) ListForUser(context.Context, uuid.UUID) ([]ordersvc.OrderDTO, error) {
	return []ordersvc.OrderDTO{}, nil
}

func (stubOrderService) ListAll(context.Context) ([]ordersvc.OrderDTO, error) {
	return []ordersvc.OrderDTO{}, nil
}

func (stubOrderService) Cancel(context.Context, uuid.UUID, ordersvc.Actor, bool) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) UpdateStatus(context.Context, uuid.UUID, enums.OrderStatus, bool) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) UpdateDeliveryStatus(context.Context, uuid.UUID, enums.DeliveryStatus, bool) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "cartify-test", ExpirationMinutes: 60},
		Frontend: config.FrontendConfig{
			BaseURL:           "https://shop.example.com",
			PaymentSuccessURL: "/payment/success",
			PaymentFailedURL:  "/payment/failed",
			PaymentErrorURL:   "/payment/error",
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(
		testConfig(),
		nil,
		stubPinger{},
		stubPinger{},
		prometheus.NewRegistry(),
		stubAuthService{},
		stubCatalogService{},
		stubCartService{},
		stubOrderService{},
		nil,
		stubValidator{ok: false},
	)
}

func mintRouterToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterPublicEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready", "/metrics", "/api/v1/products"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/admin/v1/orders"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", route.method, route.path, resp.Code)
		}
	}
}

func TestRouterAdminGating(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("customer on admin route: expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintRouterToken(t, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("admin on admin route: expected 200 got %d", resp.Code)
	}
}

func TestRouterCustomerRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := mintRouterToken(t, enums.UserRoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("cart fetch: expected 200 got %d", resp.Code)
	}

	body := strings.NewReader(`{"address":{"street":"1 Main St","city":"Lagos","state":"LA","postal_code":"100001","country":"NG"},"payment_type":"card"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("order create: expected 201 got %d", resp.Code)
	}
}

func TestRouterWebhookRejectsBadSignature(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(`{"event":"charge.success"}`))
	req.Header.Set("x-paystack-signature", "bogus")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
