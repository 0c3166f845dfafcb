package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the collections report: a summary sheet plus one detail
// sheet per TPS that had pickups in the period.
func (g *Generator) Generate(report model.CollectionReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, group := range report.Groups {
		if group.PickupCount == 0 {
			continue
		}
		sheetName := buildSheetName(group.Name, group.ID, usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeDetail(file, sheetName, report, group); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.CollectionReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", "Waste collections")
	set("A2", "Period start")
	set("B2", formatDate(report.PeriodStart))
	set("A3", "Period end")
	set("B3", formatDate(report.PeriodEnd))
	set("A4", "Total pickups")
	set("B4", report.TotalPickups)

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Collection point")
	set(fmt.Sprintf("B%d", tableRow), "Address")
	set(fmt.Sprintf("C%d", tableRow), "Pickups")

	for i, group := range report.Groups {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), group.Name)
		set(fmt.Sprintf("B%d", row), group.Address)
		set(fmt.Sprintf("C%d", row), group.PickupCount)
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "B", 48)
	_ = file.SetColWidth(sheet, "C", "C", 12)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, report model.CollectionReport, group model.TPSGroup) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Collection point")
	set("B1", group.Name)
	set("A2", "Address")
	set("B2", group.Address)
	set("A3", "Period start")
	set("B3", formatDate(report.PeriodStart))
	set("A4", "Period end")
	set("B4", formatDate(report.PeriodEnd))
	set("A5", "Pickups")
	set("B5", group.PickupCount)

	tableRow := 7
	headers := []string{
		"Completed at",
		"Schedule date",
		"Driver",
		"Issue",
		"Verified",
		"Photo",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, pickup := range group.Pickups {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDateTimePtr(pickup.CompletedAt))
		set(fmt.Sprintf("B%d", row), formatDate(pickup.ScheduleDate))
		set(fmt.Sprintf("C%d", row), formatString(pickup.DriverName))
		set(fmt.Sprintf("D%d", row), formatBool(pickup.HasIssue))
		set(fmt.Sprintf("E%d", row), formatBool(pickup.Verified))
		set(fmt.Sprintf("F%d", row), formatString(pickup.PhotoURL))
	}

	_ = file.SetColWidth(sheet, "A", "B", 20)
	_ = file.SetColWidth(sheet, "C", "C", 28)
	_ = file.SetColWidth(sheet, "D", "E", 10)
	_ = file.SetColWidth(sheet, "F", "F", 60)
	return nil
}

func buildSheetName(name string, id uuid.UUID, used map[string]struct{}) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = id.String()
	}
	base = sanitizeSheetName(base)

	if len(base) > 31 {
		base = base[:31]
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		nameCandidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTimePtr(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
