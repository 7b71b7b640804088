package handler

import (
	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type BankingHandler interface {
	ProvisionVirtualAccount(c *gin.Context)
	GetBankList(c *gin.Context)
}

type BankingHandlerImpl struct {
	usecase usecase.BankingUsecase
	logger  *logrus.Logger
}

func NewBankingHandler(usecase usecase.BankingUsecase, logger *logrus.Logger) BankingHandler {
	return &BankingHandlerImpl{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *BankingHandlerImpl) ProvisionVirtualAccount(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	accountResp, custErr := h.usecase.ProvisionVirtualAccount(c.Request.Context(), userID)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.CreatedSuccessWithPayload(accountResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BankingHandlerImpl) GetBankList(c *gin.Context) {
	banks := h.usecase.GetBankList()

	resp := response.GeneralSuccessCustomMessageAndPayload("Banks retrieved successfully", banks)
	c.JSON(resp.StatusCode, resp)
}
