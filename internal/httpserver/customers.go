package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/domain"
	customersvc "storefront/internal/service/customer"
)

type customerService interface {
	List(ctx context.Context, actor auth.Principal) ([]domain.Customer, error)
	Get(ctx context.Context, actor auth.Principal, id string) (*domain.Customer, error)
	Create(ctx context.Context, actor auth.Principal, in domain.CustomerInput) (*domain.Customer, error)
	Signup(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, actor auth.Principal, id string, patch domain.CustomerPatch) (*domain.Customer, error)
	Delete(ctx context.Context, actor auth.Principal, id string) error
	AddToWishlist(ctx context.Context, actor auth.Principal, customerID, productID string) (*domain.Customer, error)
	RemoveFromWishlist(ctx context.Context, actor auth.Principal, customerID, productID string) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*customersvc.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*customersvc.Session, error)
	Logout(ctx context.Context, refreshToken string) error
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func signupHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.CustomerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		created, err := svc.Signup(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func loginHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Email and password are required")
			return
		}
		session, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func refreshHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.Unauthorizedf("Refresh token is required"))
			return
		}
		session, err := svc.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func logoutHandler(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Refresh token is required")
			return
		}
		if err := svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCustomers(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), principal(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getCustomer(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := svc.Get(c.Request.Context(), principal(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func createCustomer(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.CustomerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		created, err := svc.Create(c.Request.Context(), principal(c), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateCustomer(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch domain.CustomerPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "Invalid request body")
			return
		}
		updated, err := svc.Update(c.Request.Context(), principal(c), c.Param("id"), patch)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteCustomer(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func addToWishlist(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Product id is required")
			return
		}
		customer, err := svc.AddToWishlist(c.Request.Context(), principal(c), c.Param("id"), req.ProductID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func removeFromWishlist(svc customerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := svc.RemoveFromWishlist(c.Request.Context(), principal(c), c.Param("id"), c.Param("productId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}
