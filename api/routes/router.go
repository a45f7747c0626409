package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emekaorji/cartify-backend/api/controllers"
	"github.com/emekaorji/cartify-backend/api/middleware"
	"github.com/emekaorji/cartify-backend/internal/auth"
	"github.com/emekaorji/cartify-backend/internal/cart"
	"github.com/emekaorji/cartify-backend/internal/catalog"
	"github.com/emekaorji/cartify-backend/internal/orders"
	"github.com/emekaorji/cartify-backend/internal/payments"
	"github.com/emekaorji/cartify-backend/pkg/config"
	"github.com/emekaorji/cartify-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type signatureValidator interface {
	ValidateSignature(payload []byte, signature string) bool
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPing pinger,
	redisPing pinger,
	registry *prometheus.Registry,
	authService auth.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	orderService orders.Service,
	paymentService *payments.Service,
	gateway signatureValidator,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Frontend),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPing, redisPing))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(catalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
	})

	r.Post("/api/v1/webhooks/paystack", controllers.PaystackWebhook(paymentService, gateway, logg))
	r.Get("/api/v1/payments/callback", controllers.PaymentCallback(paymentService, cfg.Frontend, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Put("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(orderService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/initialize", controllers.PaymentInitialize(paymentService, logg))
			r.Post("/verify", controllers.PaymentVerify(paymentService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			r.Post("/{orderId}/cancel", controllers.AdminOrderCancel(orderService, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderUpdateStatus(orderService, logg))
			r.Put("/{orderId}/delivery-status", controllers.AdminOrderUpdateDeliveryStatus(orderService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(catalogService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(catalogService, logg))
		})
	})

	return r
}
