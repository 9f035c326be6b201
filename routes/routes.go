package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"uzhavan/auth"
	"uzhavan/cart"
	"uzhavan/middleware"
	"uzhavan/orders"
	"uzhavan/products"
	"uzhavan/profile"
	"uzhavan/ratelim"
	"uzhavan/utils"
	"uzhavan/voice"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir("static/productpic"))
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/logout", middleware.OptionalAuth(h.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(h.RefreshToken))
	router.POST("/api/auth/otp/request", rl.Limit(h.RequestOTP))
	router.POST("/api/auth/otp/verify", rl.Limit(h.VerifyOTP))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products", products.ListProducts)
	router.GET("/api/products/:id", products.GetProduct)
	router.GET("/api/farmer/products", middleware.Authenticate(middleware.RequireFarmer(products.GetMyProducts)))
	router.POST("/api/products", middleware.Authenticate(middleware.RequireFarmer(products.CreateProduct)))
	router.PUT("/api/products/:id", middleware.Authenticate(middleware.RequireFarmer(products.EditProduct)))
	router.DELETE("/api/products/:id", middleware.Authenticate(middleware.RequireFarmer(products.DeleteProduct)))
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler) {
	router.GET("/api/cart", middleware.OptionalAuth(h.GetCart))
	router.POST("/api/cart", middleware.OptionalAuth(h.AddToCart))
	router.PUT("/api/cart/:productId", middleware.OptionalAuth(h.UpdateQuantity))
	router.DELETE("/api/cart/:productId", middleware.OptionalAuth(h.RemoveItem))
	router.DELETE("/api/cart", middleware.OptionalAuth(h.ClearCart))
	router.GET("/api/cart-total", middleware.OptionalAuth(h.GetTotal))
}

func AddSessionRoutes(router *httprouter.Router, h *cart.Handler) {
	router.GET("/api/session", middleware.OptionalAuth(h.GetSession))
	router.POST("/api/session/language", middleware.OptionalAuth(h.ToggleLanguage))
	router.POST("/api/session/refresh-products", middleware.OptionalAuth(h.RefreshProducts))
}

func AddOrderRoutes(router *httprouter.Router, h *orders.Handler) {
	router.POST("/api/orders", middleware.Authenticate(h.CreateOrder))
	router.GET("/api/orders", middleware.Authenticate(h.GetMyOrders))
	router.GET("/api/farmer/orders", middleware.Authenticate(middleware.RequireFarmer(h.GetIncomingOrders)))
	router.PATCH("/api/orders/:id/status", middleware.Authenticate(h.UpdateStatus))
	router.POST("/api/orders/:id/markpaid", middleware.Authenticate(middleware.RequireFarmer(h.MarkPaid)))
	router.GET("/api/orders/:id/receipt", middleware.Authenticate(h.PrintReceipt))
}

func AddVoiceRoutes(router *httprouter.Router) {
	router.POST("/api/voice/interpret", voice.InterpretCommand)
	router.GET("/api/voice/commands", voice.ListCommands)
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", middleware.Authenticate(profile.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(profile.EditProfile))
	router.POST("/api/profile/avatar", middleware.Authenticate(profile.UploadAvatar))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/api/csrf", utils.CSRF)
}
