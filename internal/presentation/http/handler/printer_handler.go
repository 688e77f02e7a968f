package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/domain/entity"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-counter/pkg/apperror"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	warning := ""
	if err != nil {
		warning = apperror.GetAppError(err).Message
	}
	writePrintResult(c, "Test page", receipt, warning, nil)
}

// writePrintResult answers a print request. A receipt that was built but
// could not be printed is still returned, with the warning alongside.
func writePrintResult(c *gin.Context, what string, receipt *entity.Receipt, warning string, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if warning != "" {
		response.OK(c, what+" generated but printing failed", gin.H{
			"receipt": receipt,
			"warning": warning,
		})
		return
	}
	response.OK(c, what+" sent to printer", gin.H{
		"receipt": receipt,
	})
}
