package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeError maps err to a status code and aborts with a {status, message} body.
// Domain outcomes other than authorization are reported as 400.
func writeError(c *gin.Context, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError || errors.Is(err, domain.ErrDatabase) {
		logger(c).WithError(err).Error("request failed")
	}
	c.AbortWithStatusJSON(status, errorBody{Status: status, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.Message(err, "Unauthorized")
	case errors.Is(err, domain.ErrDatabase):
		return http.StatusBadRequest, "Database error"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest, domain.Message(err, err.Error())
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// badRequest reports a malformed request body or parameter.
func badRequest(c *gin.Context, msg string) {
	writeError(c, domain.Validationf("%s", msg))
}

const loggerKey = "logger"

func logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(loggerKey); ok {
		if e, ok := v.(*logrus.Entry); ok {
			return e
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
