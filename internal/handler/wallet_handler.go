package handler

import (
	"net/http"
	"strconv"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type WalletHandler interface {
	GetWallet(c *gin.Context)
	GetBalance(c *gin.Context)
	SetPin(c *gin.Context)
	ChangePin(c *gin.Context)
	GetTransactionHistory(c *gin.Context)
}

type WalletHandlerImpl struct {
	usecase   usecase.WalletUsecase
	logger    *logrus.Logger
	validator *validator.Validate
}

func NewWalletHandler(usecase usecase.WalletUsecase, logger *logrus.Logger, validator *validator.Validate) WalletHandler {
	return &WalletHandlerImpl{
		usecase:   usecase,
		logger:    logger,
		validator: validator,
	}
}

func (h *WalletHandlerImpl) GetWallet(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	walletResp, custErr := h.usecase.GetWallet(c.Request.Context(), userID)
	if custErr != nil {
		c.AbortWithStatusJSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Wallet retrieved successfully", walletResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *WalletHandlerImpl) GetBalance(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	balanceResp, custErr := h.usecase.GetBalance(c.Request.Context(), userID)
	if custErr != nil {
		c.AbortWithStatusJSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Balance retrieved successfully", balanceResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *WalletHandlerImpl) SetPin(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.SetPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Invalid request payload",
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		details := make(map[string]string)
		for _, err := range err.(validator.ValidationErrors) {
			details[err.Field()] = getValidationErrorMessage(err)
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Validation failed",
			"errors":  details,
		})
		return
	}

	if custErr := h.usecase.SetPin(c.Request.Context(), userID, req.Pin); custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Transaction PIN set successfully", nil)
	c.JSON(resp.StatusCode, resp)
}

func (h *WalletHandlerImpl) ChangePin(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.ChangePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Invalid request payload",
		})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		details := make(map[string]string)
		for _, err := range err.(validator.ValidationErrors) {
			details[err.Field()] = getValidationErrorMessage(err)
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Validation failed",
			"errors":  details,
		})
		return
	}

	if custErr := h.usecase.ChangePin(c.Request.Context(), userID, req.CurrentPin, req.NewPin); custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Transaction PIN changed successfully", nil)
	c.JSON(resp.StatusCode, resp)
}

func (h *WalletHandlerImpl) GetTransactionHistory(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	limitStr := c.DefaultQuery("limit", "20")
	offsetStr := c.DefaultQuery("offset", "0")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}

	transactions, custErr := h.usecase.GetTransactionHistory(c.Request.Context(), userID, limit, offset)
	if custErr != nil {
		c.AbortWithStatusJSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Transaction history retrieved successfully", transactions)
	c.JSON(resp.StatusCode, resp)
}
