package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/domain"
)

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Create(ctx context.Context, actor auth.Principal, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, actor auth.Principal, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, actor auth.Principal, id string) error
	AddRating(ctx context.Context, id string, rating int) (*domain.Product, error)
}

type ratingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func listProducts(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func searchProducts(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.Search(c.Request.Context(), c.Query("query"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getProduct(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createProduct(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		p, err := svc.Create(c.Request.Context(), principal(c), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProduct(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch domain.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		p, err := svc.Update(c.Request.Context(), principal(c), c.Param("id"), patch)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProduct(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func rateProduct(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ratingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Rating is required")
			return
		}
		p, err := svc.AddRating(c.Request.Context(), c.Param("id"), req.Rating)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
