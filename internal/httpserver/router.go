package httpserver

import (
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"storefront/internal/metrics"
)

// Deps are the services behind the routes. Metrics and AllowedOrigins are
// optional.
type Deps struct {
	Customers customerService
	Carts     cartService
	Discounts discountService
	Orders    orderService
	Payments  paymentService
	Products  productService
	Tokens    tokenVerifier

	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.Customers == nil, d.Carts == nil, d.Discounts == nil, d.Orders == nil,
		d.Payments == nil, d.Products == nil:
		return errors.New("httpserver: all services are required")
	case d.Tokens == nil:
		return errors.New("httpserver: token verifier is required")
	}
	return nil
}

// buildRouter wires routes for the API. Everything except the public
// endpoints requires a bearer token.
func buildRouter(logger *logrus.Entry, db pinger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), instrument(deps.Metrics))
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/status", statusHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/signup", signupHandler(deps.Customers))
	router.POST("/login", loginHandler(deps.Customers))
	router.POST("/refresh", refreshHandler(deps.Customers))
	router.POST("/logout", logoutHandler(deps.Customers))

	api := router.Group("/", authenticate(deps.Tokens))

	customers := api.Group("/customers")
	customers.GET("", listCustomers(deps.Customers))
	customers.POST("", createCustomer(deps.Customers))
	customers.GET("/:id", getCustomer(deps.Customers))
	customers.PUT("/:id", updateCustomer(deps.Customers))
	customers.DELETE("/:id", deleteCustomer(deps.Customers))
	customers.GET("/:id/orders", listCustomerOrders(deps.Orders))
	customers.POST("/:id/wishlist", addToWishlist(deps.Customers))
	customers.DELETE("/:id/wishlist/:productId", removeFromWishlist(deps.Customers))

	carts := api.Group("/carts")
	carts.GET("", listCarts(deps.Carts))
	carts.GET("/mine", myCart(deps.Carts))
	carts.GET("/:id", getCart(deps.Carts))
	carts.POST("/:id/items", addCartItem(deps.Carts))
	carts.DELETE("/:id/items/:productId", removeCartItem(deps.Carts))
	carts.POST("/:id/checkout", checkout(deps.Carts))

	discounts := api.Group("/discounts")
	discounts.GET("", listDiscounts(deps.Discounts))
	discounts.POST("", createDiscount(deps.Discounts))
	discounts.GET("/:code", getDiscount(deps.Discounts))
	discounts.PUT("/:code", updateDiscount(deps.Discounts))
	discounts.DELETE("/:code", deleteDiscount(deps.Discounts))
	discounts.POST("/:code/activate", activateDiscount(deps.Discounts))
	discounts.POST("/:code/deactivate", deactivateDiscount(deps.Discounts))

	orders := api.Group("/orders")
	orders.GET("", listOrders(deps.Orders))
	orders.GET("/:id", getOrder(deps.Orders))
	orders.DELETE("/:id", deleteOrder(deps.Orders))

	payments := api.Group("/payments")
	payments.GET("", listPayments(deps.Payments))
	payments.POST("", createPayment(deps.Payments))
	payments.GET("/:id", getPayment(deps.Payments))

	products := api.Group("/products")
	products.GET("", listProducts(deps.Products))
	products.POST("", createProduct(deps.Products))
	products.GET("/search", searchProducts(deps.Products))
	products.GET("/:id", getProduct(deps.Products))
	products.PUT("/:id", updateProduct(deps.Products))
	products.DELETE("/:id", deleteProduct(deps.Products))
	products.POST("/:id/rating", rateProduct(deps.Products))

	return router, nil
}
