package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the printable route manifest: the ordered stop list with
// per-leg distance and time estimates plus completion marks.
func (g *Generator) Generate(schedule model.Schedule) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Collection Route Manifest", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Schedule %s", schedule.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s    Status: %s    Origin: %s",
		formatDate(schedule.Date), schedule.Status, generationLabel(schedule.Generation)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Route summary", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Stops: %d", len(schedule.Stops)), "", 1, "L", false, 0, "")
	if schedule.Generation == model.GenerationAI {
		pdf.CellFormat(0, 6, fmt.Sprintf("Total distance: %.1f km", schedule.TotalDistanceKm), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Estimated duration: %.0f min", schedule.EstimatedMinutes), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Stops", "", 1, "L", false, 0, "")

	headers := []string{"#", "Collection point", "Leg km", "Leg min", "Done", "Issue"}
	colWidths := []float64{10, 90, 25, 25, 15, 15}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, stop := range schedule.Stops {
		row := []string{
			fmt.Sprintf("%d", stop.Sequence),
			stop.TPSName,
			formatLeg(stop.DistanceFromPrevKm, stop.Sequence),
			formatLeg(stop.MinutesFromPrev, stop.Sequence),
			checkMark(stop.Completed),
			checkMark(stop.HasIssue),
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, "Driver signature: ______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i != 1 {
			align = "C"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func generationLabel(generation model.ScheduleGeneration) string {
	if generation == model.GenerationAI {
		return "optimized"
	}
	return "manual"
}

func formatLeg(value float64, sequence int) string {
	// The first stop has no inbound leg.
	if sequence <= 1 {
		return "-"
	}
	return fmt.Sprintf("%.1f", value)
}

func checkMark(value bool) string {
	if value {
		return "x"
	}
	return ""
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
