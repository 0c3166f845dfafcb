package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

func TestGenerateWorkbook(t *testing.T) {
	completedAt := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)
	driver := "Budi Santoso"
	report := model.CollectionReport{
		PeriodStart:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:    time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalPickups: 1,
		Groups: []model.TPSGroup{
			{
				ID:          uuid.New(),
				Name:        "TPS Melati",
				Address:     "Jl. Melati No. 3",
				PickupCount: 1,
				Pickups: []model.CollectionDetail{
					{
						ScheduleID:   uuid.New(),
						ScheduleDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
						DriverName:   &driver,
						CompletedAt:  &completedAt,
						Verified:     true,
					},
				},
			},
			{ID: uuid.New(), Name: "TPS Kenanga", PickupCount: 0},
		},
	}

	content, err := NewGenerator().Generate(report)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheets = %v, want Summary plus one detail sheet", sheets)
	}
	if sheets[0] != "Summary" {
		t.Errorf("first sheet = %q, want Summary", sheets[0])
	}

	total, err := file.GetCellValue("Summary", "B4")
	if err != nil {
		t.Fatalf("read total: %v", err)
	}
	if total != "1" {
		t.Errorf("total pickups cell = %q, want 1", total)
	}

	driverCell, err := file.GetCellValue(sheets[1], "C8")
	if err != nil {
		t.Fatalf("read driver: %v", err)
	}
	if driverCell != driver {
		t.Errorf("driver cell = %q, want %q", driverCell, driver)
	}
}

func TestBuildSheetNameTruncatesAndDeduplicates(t *testing.T) {
	used := map[string]struct{}{}

	long := buildSheetName("TPS Terpadu Kecamatan Cempaka Putih Timur", uuid.New(), used)
	if len(long) > 31 {
		t.Errorf("sheet name %q exceeds 31 characters", long)
	}
	used[long] = struct{}{}

	second := buildSheetName("TPS Terpadu Kecamatan Cempaka Putih Timur", uuid.New(), used)
	if second == long {
		t.Error("duplicate names must get a numeric suffix")
	}
	if len(second) > 31 {
		t.Errorf("deduplicated name %q exceeds 31 characters", second)
	}
}

func TestSanitizeSheetNameStripsForbiddenCharacters(t *testing.T) {
	got := sanitizeSheetName("TPS [Blok A/3]: *utama?")
	for _, forbidden := range []string{"[", "]", ":", "*", "?", "/", "\\"} {
		if bytes.Contains([]byte(got), []byte(forbidden)) {
			t.Errorf("sanitized name %q still contains %q", got, forbidden)
		}
	}
	if sanitizeSheetName("   ") != "Sheet" {
		t.Error("blank name should fall back to Sheet")
	}
}
