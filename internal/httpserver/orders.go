package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/domain"
	paymentsvc "storefront/internal/service/payment"
)

type orderService interface {
	List(ctx context.Context, actor auth.Principal) ([]domain.Order, error)
	ListForCustomer(ctx context.Context, actor auth.Principal, customerID string) ([]domain.Order, error)
	Get(ctx context.Context, actor auth.Principal, id string) (*domain.Order, error)
	Delete(ctx context.Context, actor auth.Principal, id string) error
}

type paymentService interface {
	List(ctx context.Context, actor auth.Principal) ([]domain.Payment, error)
	Get(ctx context.Context, actor auth.Principal, id string) (*domain.Payment, error)
	Create(ctx context.Context, actor auth.Principal, in paymentsvc.Input) (*domain.Payment, error)
}

type paymentRequest struct {
	OrderID string           `json:"orderId" binding:"required"`
	Amount  *decimal.Decimal `json:"amount" binding:"required"`
}

func listOrders(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), principal(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func listCustomerOrders(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListForCustomer(c.Request.Context(), principal(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getOrder(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Get(c.Request.Context(), principal(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrder(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listPayments(svc paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), principal(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getPayment(svc paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), principal(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createPayment(svc paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Order id and amount are required")
			return
		}
		p, err := svc.Create(c.Request.Context(), principal(c), paymentsvc.Input{OrderID: req.OrderID, Amount: *req.Amount})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}
