package routes

import (
	"net/http"

	"emporia/admin"
	"emporia/auth"
	"emporia/cart"
	"emporia/middleware"
	"emporia/orders"
	"emporia/products"
	"emporia/ratelim"
	"emporia/reviews"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/products/*filepath", http.Dir("uploads/products"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(auth.Refresh))
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddProductRoutes(router *httprouter.Router) {
	router.GET("/api/products/products", products.GetProducts)
	router.GET("/api/products/search", products.SearchProducts)
	router.GET("/api/products/categories", products.GetCategories)
	router.GET("/api/products/admin", middleware.AdminOnly(products.GetAllProducts))

	router.POST("/api/products/product", middleware.AdminOnly(products.CreateProduct))
	router.GET("/api/products/product/:id", products.GetProduct)
	router.PUT("/api/products/product/:id", middleware.AdminOnly(products.UpdateProduct))
	router.PATCH("/api/products/product/:id/status", middleware.AdminOnly(products.UpdateProductStatus))
	router.DELETE("/api/products/product/:id", middleware.AdminOnly(products.DeleteProduct))
	router.POST("/api/products/product/:id/images", middleware.AdminOnly(products.UploadProductImage))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart/items", middleware.Authenticate(cart.AddCartItem))
	router.PUT("/api/cart/items/:productId", middleware.Authenticate(cart.UpdateCartItem))
	router.DELETE("/api/cart/items/:productId", middleware.Authenticate(cart.RemoveCartItem))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
	router.POST("/api/cart/merge", middleware.Authenticate(cart.MergeCart))
}

func AddOrderRoutes(router *httprouter.Router) {
	router.POST("/api/orders", ratelim.RateLimit(middleware.Authenticate(orders.CreateOrder)))
	router.GET("/api/orders/my", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/all", middleware.AdminOnly(orders.GetAllOrders))
	router.GET("/api/orders/order/:id", middleware.Authenticate(orders.GetOrder))
	router.PATCH("/api/orders/order/:id/status", middleware.AdminOnly(orders.UpdateOrderStatus))
	router.PATCH("/api/orders/order/:id/cancel", middleware.Authenticate(orders.CancelOrder))
	router.GET("/api/orders/order/:id/invoice", middleware.Authenticate(orders.PrintInvoice))
}

func AddReviewsRoutes(router *httprouter.Router) {
	router.GET("/api/products/product/:id/reviews", middleware.OptionalAuth(reviews.GetReviews))
	router.POST("/api/products/product/:id/reviews", ratelim.RateLimit(middleware.Authenticate(reviews.CreateReview)))
	router.PUT("/api/reviews/:reviewId/helpful", middleware.Authenticate(reviews.VoteHelpful))
	router.DELETE("/api/reviews/:reviewId/helpful", middleware.Authenticate(reviews.UnvoteHelpful))
	router.DELETE("/api/reviews/:reviewId", middleware.Authenticate(reviews.DeleteReview))
	router.DELETE("/api/reviews/:reviewId/admin", middleware.AdminOnly(reviews.AdminDeleteReview))
	router.POST("/api/reviews/:reviewId/response", middleware.AdminOnly(reviews.RespondToReview))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/stats", middleware.AdminOnly(admin.GetStats))
}
