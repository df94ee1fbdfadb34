package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/config"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/database"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/guard"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/handler"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/middleware"
	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
)

func New(
	cfg *config.Config,
	db *database.DB,
	cookies *session.CookieWriter,
	pageHandler *handler.PageHandler,
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	reviewHandler *handler.ReviewHandler,
	uploadHandler *handler.UploadHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(guard.Middleware(cookies))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Health(req.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", pageHandler.Static())

	r.Get("/", pageHandler.Serve("home", "Storefront"))
	r.Get("/Login", pageHandler.Serve("login", "Sign In"))
	r.Get("/Register", pageHandler.Serve("register", "Create Account"))
	r.Get("/cart", pageHandler.Serve("cart", "Your Cart"))
	r.Get("/checkout", pageHandler.Serve("checkout", "Checkout"))
	r.Get("/Profile", pageHandler.Serve("profile", "Your Profile"))
	r.Get("/view-order", pageHandler.Serve("view-order", "Your Orders"))
	r.Get("/Detail/{id}", pageHandler.Serve("detail", "Product Detail"))
	r.Get("/Review/{id}", pageHandler.Serve("review", "Product Reviews"))
	r.Get("/Admin", pageHandler.Serve("admin", "Admin Dashboard"))
	r.Get("/Admin/*", pageHandler.Serve("admin", "Admin Dashboard"))

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/auth", authHandler.Authenticate)
		api.Post("/auth/logout", authHandler.Logout)
		api.Post("/auth/restore", authHandler.Restore)
		api.Get("/auth/me", authHandler.Me)
		api.Get("/users", authHandler.Users)

		api.Get("/products", productHandler.List)
		api.Get("/products/{id}", productHandler.Get)
		api.Post("/products", productHandler.Create)
		api.Put("/products/{id}", productHandler.Update)
		api.Delete("/products/{id}", productHandler.Delete)

		api.Get("/cart", cartHandler.List)
		api.Post("/cart", cartHandler.Add)
		api.Put("/cart/{id}", cartHandler.UpdateQuantity)
		api.Delete("/cart/{id}", cartHandler.Remove)
		api.Delete("/cart", cartHandler.Clear)

		api.Post("/orders", orderHandler.Create)
		api.Get("/orders", orderHandler.List)
		api.Get("/orders/{id}", orderHandler.Get)
		api.Put("/orders/{id}/status", orderHandler.UpdateStatus)
		api.Delete("/orders/{id}", orderHandler.Delete)

		api.Get("/reviews", reviewHandler.List)
		api.Post("/reviews", reviewHandler.Create)
		api.Put("/reviews/{id}", reviewHandler.Update)
		api.Delete("/reviews/{id}", reviewHandler.Delete)
		api.Get("/reviews/stats/{productId}", reviewHandler.Stats)

		api.Post("/uploads", uploadHandler.Upload)
		api.Delete("/uploads/{id}", uploadHandler.Delete)
	})

	return r
}
