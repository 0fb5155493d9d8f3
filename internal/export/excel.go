// Package export renders rollup tables into Excel workbooks for
// operators who want a snapshot without touching the database.
package export

import (
	"fmt"
	"io"

	"agriprice/internal/models"

	"github.com/xuri/excelize/v2"
)

const monthlySheet = "Monthly Prices"

// WriteMonthlyWorkbook streams an xlsx workbook of one year's monthly
// rollups, one row per (product, month).
func WriteMonthlyWorkbook(w io.Writer, year int, rows []models.MonthlyPrice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", monthlySheet); err != nil {
		return err
	}

	header := []interface{}{
		"Product Code", "Year", "Month", "Avg Price", "Min Price",
		"Max Price", "Observations", "Price Change", "Change Rate (%)",
	}
	if err := f.SetSheetRow(monthlySheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []interface{}{
			row.ProductCode, row.PriceYear, row.PriceMonth, row.AvgPrice,
			row.MinPrice, row.MaxPrice, row.PriceCount, row.PriceChange,
			row.PriceChangeRate,
		}
		if err := f.SetSheetRow(monthlySheet, cell, &values); err != nil {
			return err
		}
	}

	if len(rows) == 0 {
		note := []interface{}{fmt.Sprintf("no monthly rollups recorded for %d", year)}
		if err := f.SetSheetRow(monthlySheet, "A2", &note); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
