package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/model"
	"github.com/getjaleel/tax-manager/internal/service"
)

// TaxHandler handles GST summary and tax calculation requests
type TaxHandler struct {
	taxService service.TaxService
}

// NewTaxHandler creates a new tax handler
func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{
		taxService: taxService,
	}
}

// RegisterRoutes registers the handler's routes with the given router.
// The estimate route is public; with a valid token it also saves the
// result to the caller's history.
func (h *TaxHandler) RegisterRoutes(router *gin.Engine, authMiddleware, optionalAuthMiddleware gin.HandlerFunc) {
	router.POST("/v1/tax/estimate", optionalAuthMiddleware, h.EstimateTax)

	tax := router.Group("/v1/tax", authMiddleware)
	{
		tax.GET("/gst-summary", h.GetGSTSummary)
		tax.POST("/calculations", h.CalculateTax)
		tax.GET("/calculations", h.ListCalculations)
	}
}

// EstimateTax computes a tax estimate without requiring an account
// @Summary Estimate tax
// @Description Compute GST components and income tax payable from annual figures. Anonymous calls are not stored; authenticated calls are saved to the caller's history.
// @Tags tax
// @Accept json
// @Produce json
// @Param request body model.TaxCalculationRequest true "Income and expenses (GST-inclusive)"
// @Success 200 {object} domain.TaxCalculation "Estimate"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/tax/estimate [post]
func (h *TaxHandler) EstimateTax(c *gin.Context) {
	var req model.TaxCalculationRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if req.Income < 0 || req.Expenses < 0 {
		respondBadRequest(c, "income and expenses must not be negative")
		return
	}

	var calc *domain.TaxCalculation
	var err error
	if userID := c.GetString("userID"); userID != "" {
		calc, err = h.taxService.CalculateTax(c.Request.Context(), userID, req.Income, req.Expenses)
	} else {
		calc, err = h.taxService.EstimateTax(req.Income, req.Expenses)
	}
	if err != nil {
		logError(c, "tax_estimate_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, calc)
}

// GetGSTSummary aggregates GST over the user's invoices
// @Summary Get GST summary
// @Description Aggregate GST collected and paid over an optional date range
// @Tags tax
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.GSTSummary "GST summary"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/tax/gst-summary [get]
func (h *TaxHandler) GetGSTSummary(c *gin.Context) {
	userID := c.GetString("userID")

	var startDate, endDate *string
	if v := c.Query("start_date"); v != "" {
		if _, err := parseDate(v); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		startDate = &v
	}
	if v := c.Query("end_date"); v != "" {
		if _, err := parseDate(v); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		endDate = &v
	}

	summary, err := h.taxService.GetGSTSummary(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, summary)
}

// CalculateTax computes and stores a tax calculation
// @Summary Calculate tax
// @Description Compute GST components and income tax payable from annual figures
// @Tags tax
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.TaxCalculationRequest true "Income and expenses (GST-inclusive)"
// @Success 201 {object} domain.TaxCalculation "Stored calculation"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/tax/calculations [post]
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	userID := c.GetString("userID")

	var req model.TaxCalculationRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if req.Income < 0 || req.Expenses < 0 {
		respondBadRequest(c, "income and expenses must not be negative")
		return
	}

	calc, err := h.taxService.CalculateTax(c.Request.Context(), userID, req.Income, req.Expenses)
	if err != nil {
		logError(c, "tax_calculation_failed", err, nil)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondCreated(c, calc)
}

// ListCalculations returns the user's stored tax calculations
// @Summary List tax calculations
// @Description List stored tax calculations, newest first
// @Tags tax
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.TaxCalculation "Calculations"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/tax/calculations [get]
func (h *TaxHandler) ListCalculations(c *gin.Context) {
	userID := c.GetString("userID")

	calculations, err := h.taxService.ListCalculations(c.Request.Context(), userID)
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, calculations)
}
