package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/wholesale-trade/internal/application/dto"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

// ReportUseCase reporte de movimientos por rango de fechas.
type ReportUseCase struct {
	lines repository.InvoiceLineRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(lines repository.InvoiceLineRepository) *ReportUseCase {
	return &ReportUseCase{lines: lines}
}

// Report separa entradas y traslados en [from, to]. transfer_price_sum suma el precio del
// producto una vez por línea de traslado, sin multiplicar por la cantidad, y se calcula
// sobre las mismas filas devueltas en transfer.
func (uc *ReportUseCase) Report(ctx context.Context, from, to time.Time) (*dto.ReportResponse, error) {
	var (
		receipts  []*entity.ReportLine
		transfers []*entity.ReportLine
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receipts, err = uc.lines.ListForReport(ctx, entity.InvoiceKindReceipt, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		transfers, err = uc.lines.ListForReport(ctx, entity.InvoiceKindTransfer, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var priceSum int64
	for _, l := range transfers {
		priceSum += l.Price
	}

	return &dto.ReportResponse{
		Receipt:          toReportLines(receipts),
		Transfer:         toReportLines(transfers),
		TransferPriceSum: priceSum,
	}, nil
}

func toReportLines(list []*entity.ReportLine) []dto.ReportLineResponse {
	out := make([]dto.ReportLineResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.ReportLineResponse{
			InvoiceLineResponse: toInvoiceLineResponse(&l.InvoiceLine),
			ProductName:         l.ProductName,
			Price:               l.Price,
		})
	}
	return out
}
