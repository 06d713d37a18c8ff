package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

// Discount operations are authorized by role alone.
type discountService interface {
	List(ctx context.Context, role domain.Role) ([]domain.DiscountCode, error)
	Get(ctx context.Context, role domain.Role, code string) (*domain.DiscountCode, error)
	Create(ctx context.Context, role domain.Role, in domain.DiscountInput) (*domain.DiscountCode, error)
	Update(ctx context.Context, role domain.Role, code string, patch domain.DiscountPatch) (*domain.DiscountCode, error)
	Delete(ctx context.Context, role domain.Role, code string) error
	Activate(ctx context.Context, role domain.Role, code string) (*domain.DiscountCode, error)
	Deactivate(ctx context.Context, role domain.Role, code string) (*domain.DiscountCode, error)
}

func listDiscounts(svc discountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), principal(c).Role)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getDiscount(svc discountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), principal(c).Role, c.Param("code"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func createDiscount(svc discountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.DiscountInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		d, err := svc.Create(c.Request.Context(), principal(c).Role, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, d)
	}
}

func updateDiscount(svc discountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch domain.DiscountPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		d, err := svc.Update(c.Request.Context(), principal(c).Role, c.Param("code"), patch)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func deleteDiscount(svc discountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), principal(c).Role, c.Param("code")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func activateDiscount(svc discountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Activate(c.Request.Context(), principal(c).Role, c.Param("code"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func deactivateDiscount(svc discountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Deactivate(c.Request.Context(), principal(c).Role, c.Param("code"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
