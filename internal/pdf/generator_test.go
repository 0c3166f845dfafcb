package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bluebin-id/bluebin-api/internal/model"
)

func TestGenerateManifest(t *testing.T) {
	schedule := model.Schedule{
		ID:               uuid.New(),
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:           model.ScheduleStatusAssigned,
		Generation:       model.GenerationAI,
		TotalDistanceKm:  7.4,
		EstimatedMinutes: 25,
		Stops: []model.ScheduleStop{
			{Sequence: 1, TPSName: "TPS Melati"},
			{Sequence: 2, TPSName: "TPS Kenanga", DistanceFromPrevKm: 3.2, MinutesFromPrev: 11, Completed: true},
			{Sequence: 3, TPSName: "TPS Mawar", DistanceFromPrevKm: 4.2, MinutesFromPrev: 14, HasIssue: true},
		},
	}

	content, err := NewGenerator().Generate(schedule)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Error("output does not look like a pdf document")
	}
	if len(content) < 1000 {
		t.Errorf("pdf is suspiciously small: %d bytes", len(content))
	}
}

func TestFormatLegHidesFirstStop(t *testing.T) {
	if got := formatLeg(3.2, 1); got != "-" {
		t.Errorf("first stop leg = %q, want -", got)
	}
	if got := formatLeg(3.25, 2); got != "3.2" {
		t.Errorf("leg = %q, want 3.2", got)
	}
}
