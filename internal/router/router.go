package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/plantora/plant-shop-backend/internal/config"
	"github.com/plantora/plant-shop-backend/internal/handler"
	"github.com/plantora/plant-shop-backend/internal/middleware"
	"github.com/plantora/plant-shop-backend/internal/model"
)

// Handlers bundles every handler the router wires up.  Constructing it in
// main keeps the dependency graph explicit; there are no package-level
// singletons anywhere in the application.
type Handlers struct {
	Auth    *handler.AuthHandler
	Cart    *handler.CartHandler
	Orders  *handler.OrderHandler
	Admin   *handler.AdminHandler
	Predict *handler.PredictHandler
}

// Register wires all routes onto the Echo instance.  Three authorization
// tiers exist: public, user token, admin token.  The paths intentionally
// mirror the established frontend contract, so they are flat rather than
// grouped under a version prefix.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.GET("/healthz", handler.Health)

	// Public auth endpoints, rate limited to slow down credential stuffing.
	limited := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.POST("/signup", h.Auth.Signup, limited)
	e.POST("/signin", h.Auth.Signin, limited)
	e.POST("/admin-login", h.Auth.AdminLogin, limited)

	// Public prediction proxy.
	e.POST("/api/predict", h.Predict.Predict)

	// Public reporting view, cached.
	cached := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	e.GET("/orders", h.Orders.Report, cached)

	// Endpoints requiring a valid session token of either role.
	user := e.Group("")
	user.Use(middleware.JWTAuth(cfg.JWTSecret))
	user.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	user.GET("/api/user", h.Auth.Profile)
	user.POST("/api/orders", h.Orders.Place)
	user.GET("/api/orders", h.Orders.List)
	user.POST("/cart", h.Cart.AddToCart)
	user.GET("/cart", h.Cart.GetCart)
	user.DELETE("/cart/:productId", h.Cart.RemoveFromCart)
	user.POST("/wishlist", h.Cart.AddToWishlist)
	user.GET("/wishlist", h.Cart.GetWishlist)
	user.DELETE("/wishlist/:productId", h.Cart.RemoveFromWishlist)

	// Admin-gated directory and audit endpoints.
	admin := e.Group("")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/sign-in-logs/users", h.Admin.UserSignInLogs)
}
