package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	consumptionapp "wisewatt-cloud/internal/consumption/application"
)

// BuildSummaryPDF renders a daily consumption report as PDF.
func BuildSummaryPDF(rows []consumptionapp.SummaryRow, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Daily Consumption Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Device", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Usage (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Cost (DKK)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		if row.DeviceName == consumptionapp.TotalRowName {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(70, 6, row.DeviceName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.3f", row.DailyUsage), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", row.DailyCost), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSummaryXLSX renders a daily consumption report as XLSX.
func BuildSummaryXLSX(rows []consumptionapp.SummaryRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "consumption"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Daily Consumption Report")
	_ = f.SetCellValue(sheet, "A2", "Generated")
	_ = f.SetCellValue(sheet, "B2", generatedAt.Format(time.RFC3339))

	_ = f.SetCellValue(sheet, "A4", "Device")
	_ = f.SetCellValue(sheet, "B4", "Usage (kWh)")
	_ = f.SetCellValue(sheet, "C4", "Cost (DKK)")
	for i, row := range rows {
		line := i + 5
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.DeviceName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", line), row.DailyUsage)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.DailyCost)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
