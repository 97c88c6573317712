package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/coleta-api/internal/application/dto"
	"github.com/jhoicas/coleta-api/internal/application/reports"
)

// ReportHandler resumen operativo.
type ReportHandler struct {
	uc *reports.UseCase
}

func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "AAAA-MM-DD"
// @Param        to    query  string  false  "AAAA-MM-DD"
// @Success      200   {object}  dto.SuccessResponse{data=dto.ReportSummaryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.Summary(c.UserContext(), GetOrgID(c), q)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// SummaryPDF godoc
// @Summary      Resumen del período en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "AAAA-MM-DD"
// @Param        to    query  string  false  "AAAA-MM-DD"
// @Success      200   {file}  binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/summary.pdf [get]
func (h *ReportHandler) SummaryPDF(c *fiber.Ctx) error {
	var q dto.DateRangeQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	pdf, err := h.uc.SummaryPDF(c.UserContext(), GetOrgID(c), q)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="relatorio.pdf"`)
	return c.Send(pdf)
}
