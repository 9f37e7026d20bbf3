package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scraperite/storefront-backend/api/controllers"
	webhookcontrollers "github.com/scraperite/storefront-backend/api/controllers/webhooks"
	"github.com/scraperite/storefront-backend/api/middleware"
	authsvc "github.com/scraperite/storefront-backend/internal/auth"
	cartsvc "github.com/scraperite/storefront-backend/internal/cart"
	checkoutsvc "github.com/scraperite/storefront-backend/internal/checkout"
	"github.com/scraperite/storefront-backend/internal/orders"
	"github.com/scraperite/storefront-backend/internal/posts"
	"github.com/scraperite/storefront-backend/internal/products"
	"github.com/scraperite/storefront-backend/internal/resellers"
	stripewebhook "github.com/scraperite/storefront-backend/internal/webhooks/stripe"
	"github.com/scraperite/storefront-backend/pkg/auth/session"
	"github.com/scraperite/storefront-backend/pkg/config"
	"github.com/scraperite/storefront-backend/pkg/db"
	"github.com/scraperite/storefront-backend/pkg/logger"
	"github.com/scraperite/storefront-backend/pkg/metrics"
	"github.com/scraperite/storefront-backend/pkg/redis"
	pkgstripe "github.com/scraperite/storefront-backend/pkg/stripe"
)

type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             *db.Client
	Redis          *redis.Client
	SessionManager *session.Manager

	AuthService     *authsvc.Service
	CartService     *cartsvc.Service
	CheckoutService *checkoutsvc.Service
	OrdersService   *orders.Service
	PostsService    *posts.Service
	ProductsService *products.Service
	ResellerService *resellers.Service

	StripeClient   *pkgstripe.Client
	WebhookService *stripewebhook.Service
	WebhookGuard   *stripewebhook.IdempotencyGuard
	WebhookMetrics *metrics.WebhookMetrics

	MetricsRegistry *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	if p.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	// fixed wire shapes consumed by the storefront client and Stripe
	r.Post("/api/checkout", controllers.CreateCheckoutSession(p.CheckoutService, logg))
	r.Post("/api/webhooks/stripe", webhookcontrollers.StripeWebhook(p.WebhookService, p.StripeClient, p.WebhookGuard, p.WebhookMetrics, logg))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(p.AuthService, logg))
		r.Post("/login", controllers.Login(p.AuthService, logg))
		r.Post("/refresh", controllers.RefreshToken(p.AuthService, logg))
		r.Post("/logout", controllers.Logout(p.AuthService, logg))
		r.Post("/password-reset", controllers.RequestPasswordReset(p.AuthService, logg))
		r.Post("/password-update", controllers.UpdatePassword(p.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(p.ProductsService, logg))
		r.With(middleware.Auth(cfg.JWT, p.SessionManager, logg)).
			Put("/metadata", controllers.UpsertProductMetadata(p.ProductsService, logg))
		r.Get("/{productId}", controllers.GetProduct(p.ProductsService, logg))
	})

	r.Route("/api/v1/cart/{cartToken}", func(r chi.Router) {
		r.Get("/", controllers.GetCart(p.CartService, logg))
		r.Delete("/", controllers.ClearCart(p.CartService, logg))
		r.Post("/items", controllers.AddCartItem(p.CartService, logg))
		r.Patch("/items/{itemId}", controllers.UpdateCartItem(p.CartService, logg))
		r.Delete("/items/{itemId}", controllers.RemoveCartItem(p.CartService, logg))
	})

	r.Route("/api/v1/posts", func(r chi.Router) {
		r.Get("/", controllers.ListPosts(p.PostsService, logg))
		r.Get("/{postId}", controllers.GetPost(p.PostsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
			r.Post("/", controllers.CreatePost(p.PostsService, logg))
			r.Put("/{postId}", controllers.UpdatePost(p.PostsService, logg))
			r.Delete("/{postId}", controllers.DeletePost(p.PostsService, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Get("/api/v1/orders", controllers.MyOrders(p.OrdersService, logg))
		r.Get("/api/v1/orders/{orderId}", controllers.GetOrder(p.OrdersService, logg))
		r.Route("/api/v1/resellers/me", func(r chi.Router) {
			r.Get("/", controllers.ResellerProfile(p.ResellerService, logg))
			r.Put("/", controllers.UpdateResellerProfile(p.ResellerService, logg))
		})
	})

	return r
}
