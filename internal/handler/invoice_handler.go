package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hassanfarid/fbr-invoice-service/internal/domain"
	"github.com/hassanfarid/fbr-invoice-service/internal/fbr"
	"github.com/hassanfarid/fbr-invoice-service/internal/model"
	"github.com/hassanfarid/fbr-invoice-service/internal/service"
)

// InvoiceHandler handles HTTP requests for the invoice document
type InvoiceHandler struct {
	service service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(svc service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: svc}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/v1")

	v1.GET("/invoice", h.GetInvoice)
	v1.POST("/invoice/reset", h.ResetInvoice)
	v1.PATCH("/invoice", h.UpdateInvoice)

	v1.POST("/invoice/items", h.AddItem)
	v1.PATCH("/invoice/items/:id", h.UpdateItem)
	v1.DELETE("/invoice/items/:id", h.RemoveItem)

	v1.GET("/invoice/compliance", h.GetCompliance)
	v1.GET("/invoice/qrcode.png", h.GetQRCode)
	v1.GET("/invoice/barcode.png", h.GetBarcode)
	v1.GET("/invoice/export", h.ExportPDF)

	v1.GET("/preferences", h.GetPreferences)
	v1.PUT("/preferences", h.SetPreferences)
}

// GetInvoice returns the current document
// @Summary Get the current invoice
// @Description Returns the current document with all derived totals
// @Tags invoice
// @Produce json
// @Success 200 {object} model.InvoiceResponse
// @Router /v1/invoice [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.service.Current(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.InvoiceResponse{Invoice: inv})
}

// ResetInvoice replaces the document with a fresh one
// @Summary Clear the current invoice
// @Description Replaces the document wholesale with a fresh instance carrying a new invoice number
// @Tags invoice
// @Produce json
// @Success 200 {object} model.InvoiceResponse
// @Router /v1/invoice/reset [post]
func (h *InvoiceHandler) ResetInvoice(c *gin.Context) {
	inv, err := h.service.Reset(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.InvoiceResponse{Invoice: inv})
}

// UpdateInvoice applies top-level field edits
// @Summary Update invoice fields
// @Description Applies top-level field edits and recomputes all derived totals
// @Tags invoice
// @Accept json
// @Produce json
// @Param request body model.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} model.InvoiceResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/invoice [patch]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req model.UpdateInvoiceRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if details := validateTaxIDs(&req); len(details) > 0 {
		respondBadRequest(c, ErrInvalidInput, details...)
		return
	}

	inv, err := h.service.Update(c.Request.Context(), req.ToPatch())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.InvoiceResponse{Invoice: inv})
}

// validateTaxIDs format-checks any tax ids present on a document update.
// Empty ids are allowed; the compliance layer substitutes a placeholder.
func validateTaxIDs(req *model.UpdateInvoiceRequest) []model.ErrorDetail {
	var details []model.ErrorDetail
	if req.Company != nil {
		if req.Company.NTN != "" && !fbr.ValidateNTN(req.Company.NTN) {
			details = append(details, model.ErrorDetail{Field: "company.ntn", Message: "NTN must match 9999999-9"})
		}
		if req.Company.STRN != "" && !fbr.ValidateSTRN(req.Company.STRN) {
			details = append(details, model.ErrorDetail{Field: "company.strn", Message: "STRN must be 11 digits"})
		}
	}
	if req.Client != nil && req.Client.NTN != "" && !fbr.ValidateNTN(req.Client.NTN) {
		details = append(details, model.ErrorDetail{Field: "client.ntn", Message: "NTN must match 9999999-9"})
	}
	return details
}

// AddItem appends a fresh line item
// @Summary Add a line item
// @Description Appends an empty item seeded with the document's default GST rate
// @Tags items
// @Produce json
// @Success 201 {object} model.InvoiceResponse
// @Router /v1/invoice/items [post]
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	inv, err := h.service.AddItem(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondCreated(c, model.InvoiceResponse{Invoice: inv})
}

// UpdateItem applies edits to one line item
// @Summary Update a line item
// @Description Applies field edits to an item; a description edit re-runs the tax classifier unless the rate is set explicitly
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body model.UpdateItemRequest true "Fields to update"
// @Success 200 {object} model.InvoiceResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /v1/invoice/items/{id} [patch]
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req model.UpdateItemRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	inv, err := h.service.UpdateItem(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.InvoiceResponse{Invoice: inv})
}

// RemoveItem deletes one line item
// @Summary Delete a line item
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} model.InvoiceResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /v1/invoice/items/{id} [delete]
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	inv, err := h.service.RemoveItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.InvoiceResponse{Invoice: inv})
}

// GetCompliance returns the FBR artifacts for the current document
// @Summary Get FBR compliance artifacts
// @Description Returns the verification code, QR payload and portal URL derived from the current document
// @Tags compliance
// @Produce json
// @Success 200 {object} model.ComplianceResponse
// @Router /v1/invoice/compliance [get]
func (h *InvoiceHandler) GetCompliance(c *gin.Context) {
	compliance, err := h.service.Compliance(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.ComplianceResponse{
		VerificationCode: compliance.VerificationCode,
		QRPayload:        compliance.QRPayload,
		PortalURL:        compliance.PortalURL,
	})
}

// GetQRCode returns the compliance QR image
// @Summary Get the compliance QR code
// @Tags compliance
// @Produce png
// @Success 200 {file} binary
// @Router /v1/invoice/qrcode.png [get]
func (h *InvoiceHandler) GetQRCode(c *gin.Context) {
	data, err := h.service.QRCodePNG(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// GetBarcode returns the verification-code barcode image
// @Summary Get the verification barcode
// @Tags compliance
// @Produce png
// @Success 200 {file} binary
// @Router /v1/invoice/barcode.png [get]
func (h *InvoiceHandler) GetBarcode(c *gin.Context) {
	data, err := h.service.BarcodePNG(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// ExportPDF streams the document as a PDF download
// @Summary Export the document as PDF
// @Description Renders the document in the requested format and streams it as a file download
// @Tags export
// @Produce application/pdf
// @Param format query string false "Document format" Enums(standard, receipt)
// @Success 200 {file} binary
// @Failure 409 {object} model.ErrorResponse "An export is already in progress"
// @Failure 500 {object} model.ErrorResponse
// @Router /v1/invoice/export [get]
func (h *InvoiceHandler) ExportPDF(c *gin.Context) {
	format := domain.Format(c.Query("format"))

	export, err := h.service.ExportPDF(c.Request.Context(), format)
	if err != nil {
		if errors.Is(err, service.ErrExportInProgress) {
			respondConflict(c, ErrExportBusy)
			return
		}
		log.Printf("Export failed: %v", err)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename))
	c.Data(http.StatusOK, "application/pdf", export.Data)
}

// GetPreferences returns the persisted presentation settings
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} model.PreferencesDTO
// @Router /v1/preferences [get]
func (h *InvoiceHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.service.Preferences(c.Request.Context())
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.PreferencesDTO{
		Format:    string(prefs.Format),
		DarkTheme: prefs.DarkTheme,
	})
}

// SetPreferences persists the presentation settings
// @Summary Update preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body model.PreferencesDTO true "Preferences"
// @Success 200 {object} model.PreferencesDTO
// @Failure 400 {object} model.ErrorResponse
// @Router /v1/preferences [put]
func (h *InvoiceHandler) SetPreferences(c *gin.Context) {
	var req model.PreferencesDTO
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	prefs, err := h.service.SetPreferences(c.Request.Context(), service.Preferences{
		Format:    domain.Format(req.Format),
		DarkTheme: req.DarkTheme,
	})
	if err != nil {
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondOK(c, model.PreferencesDTO{
		Format:    string(prefs.Format),
		DarkTheme: prefs.DarkTheme,
	})
}
