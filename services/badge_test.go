package services

import (
	"testing"

	"github.com/echohabit/server/models"
)

func TestBadgeUnlockByStreak(t *testing.T) {
	f := newFakeStores()
	svc := NewBadgeService(f.activities, f.users)

	user, _ := f.users.ByID(1)
	user.CurrentStreak = 7

	earned, err := svc.CheckAndUnlock(user)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(earned) != 1 || earned[0].ID != models.BadgeFireStarter {
		t.Errorf("earned = %+v, want fire_starter only", earned)
	}

	stored, _ := f.users.ByID(1)
	if !stored.HasBadge(models.BadgeFireStarter) {
		t.Error("badge not persisted")
	}
}

func TestBadgeNotReUnlocked(t *testing.T) {
	f := newFakeStores()
	f.users.users[1].Badges = models.StringList{models.BadgeFireStarter}
	svc := NewBadgeService(f.activities, f.users)

	user, _ := f.users.ByID(1)
	user.CurrentStreak = 10

	earned, err := svc.CheckAndUnlock(user)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(earned) != 0 {
		t.Errorf("already-held badge re-earned: %+v", earned)
	}
}

func TestBadgeBelowThresholdNoUnlock(t *testing.T) {
	f := newFakeStores()
	for i := 0; i < 9; i++ {
		f.activities.items = append(f.activities.items, models.Activity{
			ID: uint(i + 1), UserID: 1,
			Category: models.CategoryMoveGreen, ActivityType: models.TypeBike,
		})
	}
	svc := NewBadgeService(f.activities, f.users)

	user, _ := f.users.ByID(1)
	earned, err := svc.CheckAndUnlock(user)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(earned) != 0 {
		t.Errorf("9 rides must not unlock pedal_power: %+v", earned)
	}
}

func TestBadgeMultipleUnlocksAtOnce(t *testing.T) {
	f := newFakeStores()
	for i := 0; i < 10; i++ {
		f.activities.items = append(f.activities.items, models.Activity{
			ID: uint(i + 1), UserID: 1,
			Category: models.CategoryMoveGreen, ActivityType: models.TypeBike,
		})
	}
	svc := NewBadgeService(f.activities, f.users)

	user, _ := f.users.ByID(1)
	user.CurrentStreak = 30

	earned, err := svc.CheckAndUnlock(user)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	got := map[string]bool{}
	for _, b := range earned {
		got[b.ID] = true
	}
	for _, want := range []string{models.BadgeFireStarter, models.BadgeConsistencyKing, models.BadgePedalPower} {
		if !got[want] {
			t.Errorf("missing %s in %+v", want, earned)
		}
	}
}
