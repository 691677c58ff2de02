package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/echohabit/server/cards"
	"github.com/echohabit/server/models"
)

func newCardFixture(t *testing.T) (*CardService, *fakeStores, string) {
	t.Helper()
	renderer, err := cards.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	f := newFakeStores()
	dir := t.TempDir()
	return NewCardService(f.activities, f.users, renderer, dir), f, dir
}

func TestCardGenerate(t *testing.T) {
	svc, f, dir := newCardFixture(t)
	f.activities.items = []models.Activity{{
		ID: 1, UserID: 1,
		Category: models.CategoryMoveGreen, ActivityType: models.TypeBike,
		Points: 30, CO2SavedKg: 3.0, Caption: "commute",
	}}

	activity, err := svc.Generate(1, 1, models.CardStyleSplit)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if activity.CardStyle != models.CardStyleSplit {
		t.Errorf("style = %s, want split", activity.CardStyle)
	}
	if activity.CardImageURL == "" {
		t.Fatal("card URL not set")
	}

	// The PNG must exist on disk where the URL points.
	file := filepath.Join(dir, "cards", "1", "card_1_split.png")
	if _, err := os.Stat(file); err != nil {
		t.Errorf("card file missing: %v", err)
	}

	stored, _ := f.activities.ByID(1)
	if stored.CardImageURL != activity.CardImageURL {
		t.Error("card URL not persisted on activity")
	}
}

func TestCardGenerateUnknownStyleFallsBack(t *testing.T) {
	svc, f, _ := newCardFixture(t)
	f.activities.items = []models.Activity{{ID: 1, UserID: 1, ActivityType: models.TypeWalk}}

	activity, err := svc.Generate(1, 1, "vaporwave")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if activity.CardStyle != models.CardStyleGlassmorphism {
		t.Errorf("style = %s, want glassmorphism fallback", activity.CardStyle)
	}
}

func TestCardGenerateOwnershipEnforced(t *testing.T) {
	svc, f, _ := newCardFixture(t)
	f.activities.items = []models.Activity{{ID: 1, UserID: 99, ActivityType: models.TypeWalk}}

	if _, err := svc.Generate(1, 1, models.CardStyleSplit); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for foreign activity", err)
	}
}

func TestRecordShare(t *testing.T) {
	svc, f, _ := newCardFixture(t)
	f.activities.items = []models.Activity{{ID: 1, UserID: 1, ActivityType: models.TypeWalk}}

	if err := svc.RecordShare(1, 1, "instagram"); err != nil {
		t.Fatalf("RecordShare: %v", err)
	}
	stored, _ := f.activities.ByID(1)
	if len(stored.SharedTo) != 1 || stored.SharedTo[0] != "instagram" {
		t.Errorf("shared_to = %v, want [instagram]", stored.SharedTo)
	}

	if err := svc.RecordShare(1, 1, "myspace"); !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("err = %v, want ErrUnknownPlatform", err)
	}
}

func TestRecordShareMobilePlatforms(t *testing.T) {
	svc, f, _ := newCardFixture(t)
	f.activities.items = []models.Activity{{ID: 1, UserID: 1, ActivityType: models.TypeWalk}}

	// Every platform on the mobile share sheet plus copy-link.
	for _, platform := range []string{"instagram", "tiktok", "whatsapp", "link"} {
		if err := svc.RecordShare(1, 1, platform); err != nil {
			t.Errorf("RecordShare(%q): %v", platform, err)
		}
	}
	stored, _ := f.activities.ByID(1)
	if len(stored.SharedTo) != 4 {
		t.Errorf("shared_to = %v, want all 4 platforms", stored.SharedTo)
	}
}
