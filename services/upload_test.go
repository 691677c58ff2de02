package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

func bikeUpload() UploadRequest {
	return UploadRequest{
		UserID:       1,
		Category:     models.CategoryMoveGreen,
		ActivityType: models.TypeBike,
		Caption:      "morning commute",
		Photo:        []byte{0xff, 0xd8, 0xff},
	}
}

func TestUploadHappyPath(t *testing.T) {
	f := newFakeStores()
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	out, err := svc.Upload(bikeUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !out.FullyApplied() {
		t.Fatalf("expected fully applied outcome, got %+v", out)
	}

	a := out.Activity
	if a.ID == 0 {
		t.Error("activity not assigned an id")
	}
	if a.Points != 30 || a.CO2SavedKg != 3.0 {
		t.Errorf("bike valued at (%d, %v), want (30, 3.0)", a.Points, a.CO2SavedKg)
	}
	if a.Caption != "morning commute" || a.Category != models.CategoryMoveGreen {
		t.Errorf("activity fields not preserved: %+v", a)
	}
	if a.PhotoURL == "" {
		t.Error("photo URL not set")
	}

	if out.User.TotalPoints != 30 || out.User.TotalCO2Kg != 3.0 {
		t.Errorf("user totals (%d, %v), want (30, 3.0)", out.User.TotalPoints, out.User.TotalCO2Kg)
	}
	if out.Streak.NewStreak != 1 {
		t.Errorf("streak = %d, want 1", out.Streak.NewStreak)
	}
	if f.photos.saved != 1 {
		t.Errorf("photos saved = %d, want 1", f.photos.saved)
	}
}

func TestUploadRoundTrip(t *testing.T) {
	f := newFakeStores()
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	out, err := svc.Upload(bikeUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, err := f.activities.ByID(out.Activity.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.UserID != 1 || got.ActivityType != models.TypeBike ||
		got.Caption != "morning commute" || got.Points != 30 || got.CO2SavedKg != 3.0 {
		t.Errorf("stored activity diverges from upload: %+v", got)
	}
}

func TestUploadDoubleIncrementsDailyStatsTwice(t *testing.T) {
	f := newFakeStores()
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	for i := 0; i < 2; i++ {
		if _, err := svc.Upload(bikeUpload()); err != nil {
			t.Fatalf("upload %d: %v", i+1, err)
		}
	}

	stats, err := f.stats.ByDate(1, utils.TodayString())
	if err != nil {
		t.Fatalf("ByDate: %v", err)
	}
	if stats.ActivityCount != 2 {
		t.Errorf("ActivityCount = %d, want 2", stats.ActivityCount)
	}
	if stats.DailyPoints != 60 || stats.DailyCO2Kg != 6.0 {
		t.Errorf("daily totals (%d, %v), want (60, 6.0)", stats.DailyPoints, stats.DailyCO2Kg)
	}
	if stats.Breakdown[models.CategoryMoveGreen] != 2 {
		t.Errorf("breakdown = %v, want move_green:2", stats.Breakdown)
	}

	u, _ := f.users.ByID(1)
	if u.TotalPoints != 60 {
		t.Errorf("user total = %d, want 60", u.TotalPoints)
	}
}

func TestDailyStatsConcurrentFirstOfDay(t *testing.T) {
	// Two increments racing on a day with no row yet must both land; the
	// store upserts instead of losing one insert to a duplicate key.
	f := newFakeStores()
	date := utils.TodayString()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.stats.Increment(1, date, 30, 3.0, models.CategoryMoveGreen); err != nil {
				t.Errorf("Increment: %v", err)
			}
		}()
	}
	wg.Wait()

	stats, err := f.stats.ByDate(1, date)
	if err != nil {
		t.Fatalf("ByDate: %v", err)
	}
	if stats.ActivityCount != 2 || stats.DailyPoints != 60 {
		t.Errorf("rollup = (%d activities, %d points), want (2, 60)", stats.ActivityCount, stats.DailyPoints)
	}
	if stats.Breakdown[models.CategoryMoveGreen] != 2 {
		t.Errorf("breakdown = %v, want move_green:2", stats.Breakdown)
	}
}

func TestUploadLeavesSyncFlagUntouched(t *testing.T) {
	f := newFakeStores()
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	out, err := svc.Upload(bikeUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	stored, err := f.activities.ByID(out.Activity.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	// The flag belongs to the mobile client; server writes never set it.
	if stored.Synced {
		t.Error("sync flag should remain unset on server-created activities")
	}
}

func TestUploadRejectsInvalidInput(t *testing.T) {
	f := newFakeStores()
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	cases := []struct {
		name string
		req  UploadRequest
	}{
		{"unknown category", UploadRequest{UserID: 1, Category: "flying", ActivityType: models.TypeBike, Photo: []byte{1}}},
		{"type outside category", UploadRequest{UserID: 1, Category: models.CategoryEatClean, ActivityType: models.TypeBike, Photo: []byte{1}}},
		{"unknown type", UploadRequest{UserID: 1, Category: models.CategoryMoveGreen, ActivityType: "rocket", Photo: []byte{1}}},
	}
	for _, c := range cases {
		if _, err := svc.Upload(c.req); !errors.Is(err, ErrInvalidActivity) {
			t.Errorf("%s: err = %v, want ErrInvalidActivity", c.name, err)
		}
	}
	if len(f.activities.items) != 0 {
		t.Errorf("invalid uploads must not create activities, found %d", len(f.activities.items))
	}
}

func TestUploadAbortsWhenCreateFails(t *testing.T) {
	f := newFakeStores()
	f.activities.createErr = errors.New("db down")
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	if _, err := svc.Upload(bikeUpload()); err == nil {
		t.Fatal("expected error when activity creation fails")
	}
	u, _ := f.users.ByID(1)
	if u.TotalPoints != 0 {
		t.Errorf("aggregates must not move when the primary write fails, got %d points", u.TotalPoints)
	}
}

func TestUploadPartiallyAppliedOnAggregateFailure(t *testing.T) {
	f := newFakeStores()
	f.users.deltaErr = errors.New("lock timeout")
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	out, err := svc.Upload(bikeUpload())
	if err != nil {
		t.Fatalf("Upload should still succeed: %v", err)
	}
	if out.FullyApplied() {
		t.Error("outcome must report partial application")
	}
	if out.UserStatsApplied {
		t.Error("UserStatsApplied should be false")
	}
	if !out.DailyStatsApplied {
		t.Error("daily stats phase should still run")
	}
	if out.Activity == nil || out.Activity.ID == 0 {
		t.Error("primary activity record must exist")
	}
}

func TestUploadUnlocksBadges(t *testing.T) {
	f := newFakeStores()
	svc := NewUploadService(f.activities, f.users, f.stats, f.photos)

	// Nine prior bike rides; the tenth unlocks pedal_power.
	for i := 0; i < 9; i++ {
		f.activities.items = append(f.activities.items, models.Activity{
			ID: uint(100 + i), UserID: 1,
			Category: models.CategoryMoveGreen, ActivityType: models.TypeBike,
		})
	}

	out, err := svc.Upload(bikeUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	found := false
	for _, b := range out.NewBadges {
		if b.ID == models.BadgePedalPower {
			found = true
		}
	}
	if !found {
		t.Errorf("expected pedal_power in new badges, got %+v", out.NewBadges)
	}
	u, _ := f.users.ByID(1)
	if !u.HasBadge(models.BadgePedalPower) {
		t.Error("badge not persisted on user")
	}
}
