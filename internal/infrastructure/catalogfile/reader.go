// Package catalogfile lee el catálogo de productos desde hojas de cálculo exportadas
// (.xlsx, o .csv en UTF-8 o ISO-8859-1) con las columnas id, product_name, price.
package catalogfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
)

// ReadXLSX lee la hoja activa. La primera fila es el encabezado.
func ReadXLSX(r io.Reader) ([]*entity.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	return parseRows(rows)
}

// ReadCSV lee un .csv separado por comas. Con latin1 decodifica ISO-8859-1 (exportaciones
// antiguas de Excel en Windows).
func ReadCSV(r io.Reader, latin1 bool) ([]*entity.Product, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) ([]*entity.Product, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("archivo sin filas de productos: %w", domain.ErrInvalidInput)
	}
	var out []*entity.Product
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("fila %d: se esperan 3 columnas (id, product_name, price): %w", line, domain.ErrInvalidInput)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("fila %d: id %q: %w", line, row[0], domain.ErrInvalidInput)
		}
		name := strings.TrimSpace(row[1])
		if name == "" {
			return nil, fmt.Errorf("fila %d: product_name vacío: %w", line, domain.ErrInvalidInput)
		}
		price, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("fila %d: price %q: %w", line, row[2], domain.ErrInvalidInput)
		}
		out = append(out, &entity.Product{ID: id, Name: name, Price: price})
	}
	return out, nil
}
