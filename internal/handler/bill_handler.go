package handler

import (
	"net/http"

	"go-bills-wallet/internal/commons/response"
	"go-bills-wallet/internal/params"
	"go-bills-wallet/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type BillHandler interface {
	PurchaseAirtime(c *gin.Context)
	PurchaseData(c *gin.Context)
	PurchaseElectricity(c *gin.Context)
	PurchaseCableTv(c *gin.Context)
	PurchaseExamPin(c *gin.Context)
	PurchaseRechargePin(c *gin.Context)
	PurchaseDataPin(c *gin.Context)
	GetDataNetworks(c *gin.Context)
	GetDataPlans(c *gin.Context)
	GetCableProviders(c *gin.Context)
	GetCablePlans(c *gin.Context)
	GetElectricityPlans(c *gin.Context)
	VerifyCustomer(c *gin.Context)
	GetTopupmateServices(c *gin.Context)
}

type BillHandlerImpl struct {
	usecase   usecase.BillUsecase
	logger    *logrus.Logger
	validator *validator.Validate
}

func NewBillHandler(usecase usecase.BillUsecase, logger *logrus.Logger, validator *validator.Validate) BillHandler {
	return &BillHandlerImpl{
		usecase:   usecase,
		logger:    logger,
		validator: validator,
	}
}

// bindAndValidate parses and validates the purchase payload; it writes the
// error response itself and reports whether the handler should continue.
func (h *BillHandlerImpl) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.WithError(err).Error("Invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Invalid request payload",
		})
		return false
	}

	if err := h.validator.Struct(req); err != nil {
		details := make(map[string]string)
		for _, err := range err.(validator.ValidationErrors) {
			details[err.Field()] = getValidationErrorMessage(err)
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Validation failed",
			"errors":  details,
		})
		return false
	}

	return true
}

func (h *BillHandlerImpl) PurchaseAirtime(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.AirtimeRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	purchaseResp, custErr := h.usecase.PurchaseAirtime(c.Request.Context(), userID, &req)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Airtime purchase completed", purchaseResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) PurchaseData(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.DataRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	purchaseResp, custErr := h.usecase.PurchaseData(c.Request.Context(), userID, &req)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Data purchase completed", purchaseResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) PurchaseElectricity(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.ElectricityRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	purchaseResp, custErr := h.usecase.PurchaseElectricity(c.Request.Context(), userID, &req)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Electricity purchase completed", purchaseResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) PurchaseCableTv(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.CableTvRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	purchaseResp, custErr := h.usecase.PurchaseCableTv(c.Request.Context(), userID, &req)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Cable TV subscription completed", purchaseResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) PurchaseExamPin(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.ExamPinRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	purchaseResp, custErr := h.usecase.PurchaseExamPin(c.Request.Context(), userID, &req)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Exam pin purchase completed", purchaseResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) PurchaseRechargePin(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.RechargePinRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	purchaseResp, custErr := h.usecase.PurchaseRechargePin(c.Request.Context(), userID, &req)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Recharge pin purchase completed", purchaseResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) PurchaseDataPin(c *gin.Context) {
	userID, ok := getUserIDFromContext(c, h.logger)
	if !ok {
		return
	}

	var req params.DataPinRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	purchaseResp, custErr := h.usecase.PurchaseDataPin(c.Request.Context(), userID, &req)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Data pin purchase completed", purchaseResp)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) GetDataNetworks(c *gin.Context) {
	networks, custErr := h.usecase.GetDataNetworks(c.Request.Context())
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Data networks retrieved successfully", networks)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) GetDataPlans(c *gin.Context) {
	networkID := c.Query("network")
	if networkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "network query parameter is required",
		})
		return
	}

	plans, custErr := h.usecase.GetDataPlans(c.Request.Context(), networkID)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Data plans retrieved successfully", plans)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) GetCableProviders(c *gin.Context) {
	providers, custErr := h.usecase.GetCableProviders(c.Request.Context())
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Cable providers retrieved successfully", providers)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) GetCablePlans(c *gin.Context) {
	providerID := c.Query("provider")
	if providerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "provider query parameter is required",
		})
		return
	}

	plans, custErr := h.usecase.GetCablePlans(c.Request.Context(), providerID)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Cable plans retrieved successfully", plans)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) GetElectricityPlans(c *gin.Context) {
	plans, custErr := h.usecase.GetElectricityPlans(c.Request.Context())
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Electricity providers retrieved successfully", plans)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) VerifyCustomer(c *gin.Context) {
	kind := c.Param("kind")

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.WithError(err).Error("Invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "Invalid request payload",
		})
		return
	}

	result, custErr := h.usecase.VerifyCustomer(c.Request.Context(), kind, payload)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Customer verified successfully", result)
	c.JSON(resp.StatusCode, resp)
}

func (h *BillHandlerImpl) GetTopupmateServices(c *gin.Context) {
	service := c.Query("service")
	if service == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  false,
			"message": "service query parameter is required",
		})
		return
	}

	services, custErr := h.usecase.GetTopupmateServices(c.Request.Context(), service)
	if custErr != nil {
		c.JSON(custErr.StatusCode, custErr)
		return
	}

	resp := response.GeneralSuccessCustomMessageAndPayload("Services retrieved successfully", services)
	c.JSON(resp.StatusCode, resp)
}
