package export

import (
	"fmt"
	"io"

	"aegis_admin/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName  = "Payments"
	dateLayout = "2006-01-02 15:04:05"
)

var header = []any{"Customer", "Email", "Amount", "Currency", "Status", "Plan", "Payment date", "Order code", "Transaction"}

// WriteXLSX writes records in the given order as one sheet.
func WriteXLSX(w io.Writer, records []domain.PaymentRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		paid := ""
		if r.PaymentDate != nil {
			paid = r.PaymentDate.UTC().Format(dateLayout)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			r.CustomerName,
			r.CustomerEmail,
			r.Amount.InexactFloat64(),
			r.Currency,
			string(r.Status),
			r.PlanName,
			paid,
			r.PayOSOrderCode,
			r.PayOSTransactionID,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}
