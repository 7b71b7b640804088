package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/provider"
	"go-bills-wallet/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WebhookHandler interface {
	HandleSquadWebhook(c *gin.Context)
}

type WebhookHandlerImpl struct {
	usecase usecase.WebhookUsecase
	squad   *provider.SquadClient
	logger  *logrus.Logger
}

func NewWebhookHandler(usecase usecase.WebhookUsecase, squad *provider.SquadClient, logger *logrus.Logger) WebhookHandler {
	return &WebhookHandlerImpl{
		usecase: usecase,
		squad:   squad,
		logger:  logger,
	}
}

// HandleSquadWebhook verifies the HMAC signature against the exact raw body
// before parsing. Once the signature checks out the response is always 200,
// so the provider does not retry events we have deliberately ignored.
func (h *WebhookHandlerImpl) HandleSquadWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read webhook body")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Invalid request body",
		})
		return
	}

	signature := c.GetHeader("x-squad-encrypted-body")
	if !h.squad.VerifyWebhookSignature(body, signature) {
		h.logger.Warn("Webhook rejected: signature mismatch")
		custErr := response.UnauthorizedErrorWithCode(response.CodeInvalidSignature, "invalid webhook signature")
		c.AbortWithStatusJSON(custErr.StatusCode, custErr)
		return
	}

	var payload params.SquadWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.WithError(err).Warn("Webhook body is not valid JSON")
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "acknowledged"})
		return
	}

	if err := h.usecase.HandleSquadEvent(c.Request.Context(), &payload); err != nil {
		h.logger.WithError(err).Error("Failed to process webhook event")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": "failed to process event",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": "acknowledged"})
}
