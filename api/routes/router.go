package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sipeslibya/storefront-backend/api/controllers"
	"github.com/sipeslibya/storefront-backend/api/middleware"
	"github.com/sipeslibya/storefront-backend/internal/auth"
	"github.com/sipeslibya/storefront-backend/internal/cart"
	"github.com/sipeslibya/storefront-backend/internal/categories"
	checkoutsvc "github.com/sipeslibya/storefront-backend/internal/checkout"
	"github.com/sipeslibya/storefront-backend/internal/customers"
	"github.com/sipeslibya/storefront-backend/internal/dashboard"
	"github.com/sipeslibya/storefront-backend/internal/messages"
	"github.com/sipeslibya/storefront-backend/internal/orders"
	"github.com/sipeslibya/storefront-backend/internal/products"
	"github.com/sipeslibya/storefront-backend/internal/reviews"
	"github.com/sipeslibya/storefront-backend/internal/settings"
	"github.com/sipeslibya/storefront-backend/pkg/auth/session"
	"github.com/sipeslibya/storefront-backend/pkg/config"
	"github.com/sipeslibya/storefront-backend/pkg/db"
	"github.com/sipeslibya/storefront-backend/pkg/imgbb"
	"github.com/sipeslibya/storefront-backend/pkg/logger"
	"github.com/sipeslibya/storefront-backend/pkg/redis"
)

// Services bundles everything the HTTP layer serves.
type Services struct {
	Auth       auth.Service
	Products   product.Service
	Categories category.Service
	Carts      *cart.Manager
	Checkout   checkoutsvc.Service
	Reviews    review.Service
	Messages   message.Service
	Customers  customer.Service
	Orders     orders.Service
	Dashboard  dashboard.Service
	Settings   settings.Service
	Images     *imgbb.Client
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
			r.Get("/me", controllers.AuthProfile(svcs.Auth, logg))
			r.Post("/change-password", controllers.AuthChangePassword(svcs.Auth, logg))
		})
	})

	// Public storefront. Carries an anonymous cart session instead of auth.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.StorefrontListProducts(svcs.Products, logg))
			r.Get("/{productID}", controllers.StorefrontGetProduct(svcs.Products, logg))
			r.Get("/{productID}/reviews", controllers.ProductReviewsList(svcs.Reviews, logg))
			r.Post("/{productID}/reviews", controllers.ProductReviewSubmit(svcs.Reviews, logg))
		})
		r.Get("/categories", controllers.StorefrontListCategories(svcs.Categories, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Carts, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Carts, svcs.Products, logg))
			r.Patch("/items/{productID}", controllers.CartUpdateItem(svcs.Carts, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(svcs.Carts, logg))
			r.Delete("/", controllers.CartClear(svcs.Carts, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(svcs.Checkout, logg))
		r.Post("/contact", controllers.ContactSubmit(svcs.Messages, logg))
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(svcs.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(svcs.Products, logg))
			r.Get("/low-stock", controllers.AdminLowStockProducts(svcs.Products, logg))
			r.Get("/{productID}", controllers.AdminGetProduct(svcs.Products, logg))
			r.Patch("/{productID}", controllers.AdminUpdateProduct(svcs.Products, logg))
			r.Delete("/{productID}", controllers.AdminDeleteProduct(svcs.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(svcs.Categories, logg))
			r.Post("/", controllers.AdminCreateCategory(svcs.Categories, logg))
			r.Patch("/{categoryID}", controllers.AdminUpdateCategory(svcs.Categories, logg))
			r.Delete("/{categoryID}", controllers.AdminDeleteCategory(svcs.Categories, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.AdminGetOrder(svcs.Orders, logg))
			r.Patch("/{orderID}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
			r.Patch("/{orderID}/payment", controllers.AdminUpdateOrderPayment(svcs.Orders, logg))
			r.Post("/{orderID}/resend-notification", controllers.AdminResendOrderNotification(svcs.Orders, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminListCustomers(svcs.Customers, logg))
			r.Get("/{customerID}", controllers.AdminGetCustomer(svcs.Customers, logg))
			r.Patch("/{customerID}", controllers.AdminUpdateCustomer(svcs.Customers, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminListReviews(svcs.Reviews, logg))
			r.Patch("/{reviewID}/approve", controllers.AdminApproveReview(svcs.Reviews, logg))
			r.Patch("/{reviewID}/verify", controllers.AdminVerifyReview(svcs.Reviews, logg))
			r.Post("/{reviewID}/reply", controllers.AdminReplyReview(svcs.Reviews, logg))
			r.Delete("/{reviewID}", controllers.AdminDeleteReview(svcs.Reviews, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", controllers.AdminListMessages(svcs.Messages, logg))
			r.Get("/{messageID}", controllers.AdminGetMessage(svcs.Messages, logg))
			r.Patch("/{messageID}/status", controllers.AdminUpdateMessageStatus(svcs.Messages, logg))
			r.Post("/{messageID}/reply", controllers.AdminReplyMessage(svcs.Messages, logg))
			r.Delete("/{messageID}", controllers.AdminDeleteMessage(svcs.Messages, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", controllers.AdminDashboardStats(svcs.Dashboard, logg))
			r.Get("/sales-chart", controllers.AdminSalesChart(svcs.Dashboard, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.AdminGetSettings(svcs.Settings, logg))
			r.Patch("/", controllers.AdminUpdateSettings(svcs.Settings, logg))
			r.Post("/test-telegram", controllers.AdminTestTelegram(svcs.Settings, logg))
		})

		r.Route("/images", func(r chi.Router) {
			r.Post("/", controllers.AdminUploadImage(svcs.Images, cfg.ImgBB.Expiration, logg))
			r.Delete("/", controllers.AdminDeleteImage(svcs.Images, logg))
		})
	})

	return r
}
