package services

import (
	"testing"
	"time"

	"github.com/echohabit/server/models"
)

func activityAt(t time.Time) models.Activity {
	return models.Activity{UserID: 1, Category: models.CategoryMoveGreen, ActivityType: models.TypeBike, CreatedAt: t}
}

func TestComputeStreakEmptyHistory(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)

	res := ComputeStreak(nil, 0, now)
	if res.NewStreak != 0 || res.ShouldUpdate {
		t.Errorf("empty history with zero stored: got %+v", res)
	}

	res = ComputeStreak(nil, 5, now)
	if res.NewStreak != 0 || !res.ShouldUpdate {
		t.Errorf("empty history with stale stored streak: got %+v", res)
	}
}

func TestComputeStreakCountsBackFromToday(t *testing.T) {
	now := time.Date(2026, 8, 29, 18, 30, 0, 0, time.Local)
	history := []models.Activity{
		activityAt(now.Add(-time.Hour)),
		activityAt(now.AddDate(0, 0, -1)),
		activityAt(now.AddDate(0, 0, -2)),
		// gap at -3
		activityAt(now.AddDate(0, 0, -4)),
	}

	res := ComputeStreak(history, 1, now)
	if res.NewStreak != 3 {
		t.Errorf("streak = %d, want 3", res.NewStreak)
	}
	if !res.HasActivityToday {
		t.Error("expected HasActivityToday")
	}
	if !res.ShouldUpdate {
		t.Error("expected ShouldUpdate for 1 -> 3")
	}
}

func TestComputeStreakMultipleSameDayCountOnce(t *testing.T) {
	now := time.Date(2026, 8, 29, 18, 30, 0, 0, time.Local)
	history := []models.Activity{
		activityAt(now.Add(-time.Hour)),
		activityAt(now.Add(-2 * time.Hour)),
		activityAt(now.Add(-5 * time.Hour)),
	}

	res := ComputeStreak(history, 0, now)
	if res.NewStreak != 1 {
		t.Errorf("streak = %d, want 1 (same-day activities collapse)", res.NewStreak)
	}
}

func TestComputeStreakYesterdayOnlyKeepsStored(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	history := []models.Activity{
		activityAt(now.AddDate(0, 0, -1)),
		activityAt(now.AddDate(0, 0, -2)),
	}

	res := ComputeStreak(history, 4, now)
	if res.NewStreak != 4 {
		t.Errorf("streak = %d, want stored 4 (not yet overdue)", res.NewStreak)
	}
	if res.HasActivityToday {
		t.Error("HasActivityToday should be false")
	}
	if res.ShouldUpdate {
		t.Error("unchanged streak should not request an update")
	}
}

func TestComputeStreakBrokenResetsToZero(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	history := []models.Activity{
		activityAt(now.AddDate(0, 0, -2)),
		activityAt(now.AddDate(0, 0, -3)),
	}

	res := ComputeStreak(history, 6, now)
	if res.NewStreak != 0 {
		t.Errorf("streak = %d, want 0 after a missed day", res.NewStreak)
	}
	if !res.ShouldUpdate {
		t.Error("reset should request an update")
	}
}

func TestComputeStreakMidnightBoundary(t *testing.T) {
	// 00:05 today with an activity at 23:55 yesterday: calendar days, not
	// 24-hour windows, so the stored streak survives.
	now := time.Date(2026, 8, 29, 0, 5, 0, 0, time.Local)
	history := []models.Activity{
		activityAt(time.Date(2026, 8, 28, 23, 55, 0, 0, time.Local)),
	}

	res := ComputeStreak(history, 2, now)
	if res.NewStreak != 2 {
		t.Errorf("streak = %d, want 2 across midnight", res.NewStreak)
	}
}

func TestComputeStreakLookbackCappedAtOneYear(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)
	history := make([]models.Activity, 0, 400)
	for d := 0; d < 400; d++ {
		history = append(history, activityAt(now.AddDate(0, 0, -d)))
	}

	res := ComputeStreak(history, 0, now)
	if res.NewStreak != 365 {
		t.Errorf("streak = %d, want backward walk capped at 365", res.NewStreak)
	}
}

func TestStreakRefreshPersistsOnlyOnChange(t *testing.T) {
	now := time.Now()
	f := newFakeStores()
	f.activities.items = []models.Activity{activityAt(now)}

	svc := NewStreakService(f.activities, f.users)
	res, err := svc.Refresh(1)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.NewStreak != 1 {
		t.Errorf("streak = %d, want 1", res.NewStreak)
	}
	if f.users.streakUpdates != 1 {
		t.Errorf("streakUpdates = %d, want 1", f.users.streakUpdates)
	}

	// Second refresh with an unchanged streak must not write.
	if _, err := svc.Refresh(1); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if f.users.streakUpdates != 1 {
		t.Errorf("streakUpdates after no-op refresh = %d, want 1", f.users.streakUpdates)
	}
}
