package handler

import (
	"errors"
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/getjaleel/tax-manager/internal/domain"
	"github.com/getjaleel/tax-manager/internal/model"
	"github.com/getjaleel/tax-manager/internal/service"
)

// allowedUploadTypes lists the content types the OCR pipeline accepts
var allowedUploadTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"application/pdf": true,
}

// InvoiceHandler handles HTTP requests for invoice processing
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	maxFileSize    int64
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		maxFileSize:    10 * 1024 * 1024, // 10MB default
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	invoices := router.Group("/v1/invoices", authMiddleware)
	{
		invoices.POST("/process", h.ProcessInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PATCH("/:id/status", h.UpdateInvoiceStatus)
		invoices.DELETE("/:id", h.DeleteInvoice)
	}
}

// ProcessInvoice handles a request to process an uploaded invoice document
// @Summary Process an invoice
// @Description Upload an invoice image or PDF, OCR it and extract supplier, amounts and date
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Invoice image or PDF"
// @Param invoice_type formData string false "expense or income (default expense)"
// @Success 201 {object} model.ProcessInvoiceResponse "Invoice stored"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 409 {object} model.ProcessInvoiceResponse "Duplicate invoice"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/process [post]
func (h *InvoiceHandler) ProcessInvoice(c *gin.Context) {
	userID := c.GetString("userID")

	if err := c.Request.ParseMultipartForm(h.maxFileSize); err != nil {
		respondBadRequest(c, "Failed to parse form data: "+err.Error())
		return
	}

	file, header, err := getFormFile(c, "file")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		respondBadRequest(c, "File size exceeds limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		respondBadRequest(c, "Unsupported file type: expected PNG, JPEG or PDF")
		return
	}

	fileData, err := io.ReadAll(file)
	if err != nil {
		respondInternalServerError(c, "Failed to read file data: "+err.Error())
		return
	}

	invoiceType := c.PostForm("invoice_type")
	if invoiceType != "" && !domain.ValidInvoiceType(invoiceType) {
		respondBadRequest(c, "invoice_type must be expense or income")
		return
	}

	log.Printf("Processing invoice upload: %s (%d bytes)", header.Filename, header.Size)
	candidate, invoice, err := h.invoiceService.ProcessInvoice(c.Request.Context(), fileData, contentType, userID, invoiceType)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateInvoice) {
			// Return the extracted fields so the client can show what
			// the upload matched.
			respondConflict(c, model.NewProcessInvoiceResponse(candidate, nil, true))
			return
		}
		logError(c, "invoice_processing_failed", err, map[string]interface{}{
			"filename": header.Filename,
		})
		respondInternalServerError(c, ErrFileProcessing)
		return
	}

	respondCreated(c, model.NewProcessInvoiceResponse(candidate, invoice, false))
}

// ListInvoices returns a paginated list of the user's invoices
// @Summary List invoices
// @Description List invoices with optional filters and pagination
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 10, max 100)"
// @Param supplier query string false "Filter by supplier name (partial match)"
// @Param invoice_type query string false "Filter by invoice type"
// @Param status query string false "Filter by status"
// @Param start_date query string false "Filter from date (YYYY-MM-DD)"
// @Param end_date query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedInvoices "Paginated invoices"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter := domain.InvoiceFilter{
		UserID:      c.GetString("userID"),
		Supplier:    c.Query("supplier"),
		InvoiceType: c.Query("invoice_type"),
		Status:      c.Query("status"),
	}

	page, err := getQueryInt(c, "page", 1)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	limit, err := getQueryInt(c, "limit", 10)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	filter.Page = page
	filter.Limit = limit

	if startDate, err := parseDate(c.Query("start_date")); err != nil {
		respondBadRequest(c, err.Error())
		return
	} else if !startDate.IsZero() {
		filter.StartDate = &startDate
	}
	if endDate, err := parseDate(c.Query("end_date")); err != nil {
		respondBadRequest(c, err.Error())
		return
	} else if !endDate.IsZero() {
		filter.EndDate = &endDate
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, invoices)
}

// GetInvoice returns a single invoice by ID
// @Summary Get an invoice
// @Description Get a single invoice by ID
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} model.InvoiceDTO "Invoice"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	// The service scopes lookups to the caller, so another user's
	// invoice comes back as not found.
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.GetString("userID"), invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	dto := &model.InvoiceDTO{}
	dto.FromDomain(invoice)
	respondOK(c, dto)
}

// UpdateInvoiceStatus moves an invoice through the status workflow
// @Summary Update invoice status
// @Description Set an invoice's status to pending, processed or archived
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param request body model.UpdateStatusRequest true "New status"
// @Success 200 {object} model.InvoiceDTO "Updated invoice"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req model.UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	if !domain.ValidStatus(req.Status) {
		respondBadRequest(c, "status must be pending, processed or archived")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), c.GetString("userID"), invoiceID, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	dto := &model.InvoiceDTO{}
	dto.FromDomain(invoice)
	respondOK(c, dto)
}

// DeleteInvoice deletes an invoice by ID
// @Summary Delete an invoice
// @Description Delete an invoice by ID
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 204 "Deleted"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	invoiceID, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.GetString("userID"), invoiceID); err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondNoContent(c)
}
