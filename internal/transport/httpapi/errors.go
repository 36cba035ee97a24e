package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// statusFor сопоставляет доменную ошибку HTTP-статусу.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProductInUse), errors.Is(err, domain.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	entry := h.logger.WithError(err).WithFields(log.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"status": code,
	})

	message := err.Error()
	if code >= http.StatusInternalServerError {
		entry.Error("request failed")
		if code == http.StatusInternalServerError {
			message = "internal error"
		}
	} else {
		entry.Debug("request rejected")
	}
	c.JSON(code, errorResponse{Error: message})
}

func writeOutcome(c *gin.Context, outcome domain.Outcome, appliedStatus int) {
	switch outcome {
	case domain.OutcomeApplied:
		if appliedStatus == http.StatusNoContent {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(appliedStatus, outcomeResponse{Outcome: outcome})
	case domain.OutcomeOrderNotFound:
		c.JSON(http.StatusNotFound, errorResponse{Error: domain.ErrOrderNotFound.Error(), Outcome: outcome})
	case domain.OutcomeProductNotFound:
		c.JSON(http.StatusNotFound, errorResponse{Error: domain.ErrProductNotFound.Error(), Outcome: outcome})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "unknown outcome", Outcome: outcome})
	}
}
