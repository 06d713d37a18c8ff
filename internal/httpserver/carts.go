package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type cartService interface {
	List(ctx context.Context, actor auth.Principal) ([]domain.Cart, error)
	Get(ctx context.Context, actor auth.Principal, id string) (*domain.Cart, error)
	GetForCustomer(ctx context.Context, actor auth.Principal, customerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, actor auth.Principal, cartID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, actor auth.Principal, cartID, productID string, quantity int) (*domain.Cart, error)
	ConvertToOrder(ctx context.Context, actor auth.Principal, cartID string, in cartsvc.CheckoutInput) (*domain.Order, error)
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type checkoutRequest struct {
	PaymentInfo struct {
		Status domain.PaymentStatus `json:"status"`
	} `json:"paymentInfo"`
	DiscountCode string `json:"discountCode"`
}

func listCarts(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), principal(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func myCart(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := principal(c)
		cart, err := svc.GetForCustomer(c.Request.Context(), actor, actor.CustomerID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func getCart(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), principal(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addCartItem(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Product id is required")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		cart, err := svc.AddItem(c.Request.Context(), principal(c), c.Param("id"), req.ProductID, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// removeCartItem removes ?quantity=n units, one when omitted.
func removeCartItem(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		quantity := 1
		if raw := c.Query("quantity"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				badRequest(c, "Quantity must be a number")
				return
			}
			quantity = n
		}
		cart, err := svc.RemoveItem(c.Request.Context(), principal(c), c.Param("id"), c.Param("productId"), quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func checkout(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		order, err := svc.ConvertToOrder(c.Request.Context(), principal(c), c.Param("id"), cartsvc.CheckoutInput{
			PaymentStatus: req.PaymentInfo.Status,
			DiscountCode:  req.DiscountCode,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}
