package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aarogyam-agencies/storefront-backend/api/controllers"
	"github.com/aarogyam-agencies/storefront-backend/api/middleware"
	authsvc "github.com/aarogyam-agencies/storefront-backend/internal/auth"
	cartsvc "github.com/aarogyam-agencies/storefront-backend/internal/cart"
	checkoutsvc "github.com/aarogyam-agencies/storefront-backend/internal/checkout"
	ordersvc "github.com/aarogyam-agencies/storefront-backend/internal/orders"
	productsvc "github.com/aarogyam-agencies/storefront-backend/internal/products"
	profilesvc "github.com/aarogyam-agencies/storefront-backend/internal/profiles"
	"github.com/aarogyam-agencies/storefront-backend/pkg/auth/session"
	"github.com/aarogyam-agencies/storefront-backend/pkg/config"
	"github.com/aarogyam-agencies/storefront-backend/pkg/db"
	"github.com/aarogyam-agencies/storefront-backend/pkg/enums"
	"github.com/aarogyam-agencies/storefront-backend/pkg/logger"
	"github.com/aarogyam-agencies/storefront-backend/pkg/redis"
)

// Deps carries everything the router wires into its handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Sessions session.AccessSessionChecker

	Auth     authsvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Profiles profilesvc.Service

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
			r.Post("/login", controllers.AuthLogin(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
				r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
				r.Get("/me", controllers.AuthMe(deps.Auth, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/categories", controllers.ListCategories(deps.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))
		})

		// Public so the post-checkout confirmation works for guests.
		r.Get("/orders/{orderId}", controllers.OrderDetail(deps.Orders, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartToken(logg))
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.CartToken(logg),
				middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg),
			)
			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Get("/orders", controllers.MyOrders(deps.Orders, logg))
			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(deps.Profiles, logg))
				r.Put("/", controllers.ProfileUpdate(deps.Profiles, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, deps.Sessions, logg),
			middleware.RequireRole(string(enums.UserRoleAdmin), logg),
		)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
		})

		r.Get("/dashboard", controllers.AdminDashboard(deps.Orders, logg))
	})

	return r
}
