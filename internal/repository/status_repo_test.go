package repository

import (
	"testing"
	"time"

	"github.com/jakeb7757/evolve/internal/models"
)

func report(id, stationID int64, status string, reportedAt time.Time) models.StationStatus {
	return models.StationStatus{ID: id, StationID: stationID, Status: status, ReportedAt: reportedAt}
}

func TestResolveLatestPicksMaxTimestamp(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Rows deliberately out of timestamp order: resolution must not
	// depend on scan order.
	reports := []models.StationStatus{
		report(3, 1, models.StatusWorking, base.Add(2*time.Hour)),
		report(1, 1, models.StatusBroken, base),
		report(2, 1, models.StatusBusy, base.Add(time.Hour)),
		report(4, 2, models.StatusBroken, base),
	}

	latest := resolveLatest(reports)
	if latest[1] != models.StatusWorking {
		t.Fatalf("expected newest report to win for station 1, got %s", latest[1])
	}
	if latest[2] != models.StatusBroken {
		t.Fatalf("expected station 2 broken, got %s", latest[2])
	}
	if len(latest) != 2 {
		t.Fatalf("expected 2 stations resolved, got %d", len(latest))
	}
}

func TestResolveLatestBreaksTimestampTiesByID(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	reports := []models.StationStatus{
		report(8, 1, models.StatusWorking, at),
		report(7, 1, models.StatusBroken, at),
	}
	if latest := resolveLatest(reports); latest[1] != models.StatusWorking {
		t.Fatalf("expected higher id to win the tie, got %s", latest[1])
	}

	// Same tie presented in the opposite scan order.
	reports = []models.StationStatus{
		report(7, 1, models.StatusBroken, at),
		report(8, 1, models.StatusWorking, at),
	}
	if latest := resolveLatest(reports); latest[1] != models.StatusWorking {
		t.Fatalf("expected higher id to win the tie regardless of order, got %s", latest[1])
	}
}

func TestResolveLatestEmptyHistory(t *testing.T) {
	if latest := resolveLatest(nil); len(latest) != 0 {
		t.Fatalf("expected empty map for no reports, got %v", latest)
	}
}
