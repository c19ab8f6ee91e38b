package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/terraincognita07/registro/internal/models"
)

// RenderPDFReport lays out the same history as the CSV export, plus the streak
// and per-goal compliance summary.
func RenderPDFReport(userID string, today string, history []models.DailyRecord) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Registro Diario"), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Registro Diario: %s", userID)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Generado: %s  -  Racha actual: %d días al 100%%", today, Streak(history, today))))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, tr("Cumplimiento por objetivo"))
	pdf.Ln(9)

	pdf.SetFont("Arial", "", 10)
	for _, compliance := range BuildGoalCompliance(history) {
		pdf.CellFormat(95, 7, tr(compliance.Goal.Text), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%d / %d", compliance.Completed, compliance.Total), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, compliance.PercentLabel()+"%", "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, tr("Historial"))
	pdf.Ln(9)

	pdf.SetFont("Arial", "", 10)
	for _, entry := range RecentEntries(history, 0) {
		line := fmt.Sprintf("%s   %d / %d Completados (%s)", entry.DateString, entry.Completed, entry.Total, entry.RiskLabel)
		if entry.HasRelapsed {
			line += "  REC."
		}
		if entry.ContactRehab {
			line += "  REHAB"
		}
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}

	var output bytes.Buffer
	if err := pdf.Output(&output); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}
