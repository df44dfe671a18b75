package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wholesale-trade/internal/application/dto"
	"github.com/jhoicas/wholesale-trade/internal/application/usecase"
)

// ReportHandler reporte de movimientos por rango de fechas.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Report godoc
// @Summary      Reporte de entradas y traslados
// @Tags         report
// @Produce      json
// @Param        start_date  query  string  true  "YYYY-MM-DD o RFC 3339"
// @Param        end_date    query  string  true  "YYYY-MM-DD (incluye el día) o RFC 3339"
// @Success      200  {object}  dto.ListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/report [get]
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if ok, err := validateStruct(c, q); !ok {
		return err
	}
	from, to, err := usecase.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.Report(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse{JSONList: report})
}
