package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/restock/internal/domain/errors"
	"github.com/polkiloo/restock/internal/domain/model"
	"github.com/polkiloo/restock/internal/server/http/dto"
	"github.com/polkiloo/restock/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	actor, _ := middleware.CurrentActor(c)
	return actor
}

// StatusFor maps a domain error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidTransition), errors.Is(err, domainErrors.ErrConflictingWrite):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrMissingJustification),
		errors.Is(err, domainErrors.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := dto.ErrorResponse{Code: domainErrors.Code(err), Message: err.Error()}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		resp = dto.ErrorResponse{Code: "internal", Message: "internal server error"}
	}
	if errors.Is(err, domainErrors.ErrConflictingWrite) {
		resp.Retryable = true
		c.Header("X-Retryable", "true")
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Code: "invalid_input", Message: message})
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "order id must be a positive integer")
		return 0, false
	}
	return id, true
}
