package services

import (
	"sync"
	"time"

	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

// In-memory store fakes for service tests. They implement the same gateway
// interfaces as the Gorm stores with just enough semantics to exercise the
// orchestration logic.

type fakeActivityStore struct {
	items     []models.Activity
	nextID    uint
	createErr error
}

func (f *fakeActivityStore) Create(activity *models.Activity) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	activity.ID = f.nextID
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	f.items = append(f.items, *activity)
	return nil
}

func (f *fakeActivityStore) ByID(id uint) (*models.Activity, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			a := f.items[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeActivityStore) ListByUser(userID uint, limit, offset int) ([]models.Activity, error) {
	var out []models.Activity
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeActivityStore) ListByUserBetween(userID uint, start, end time.Time) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range f.items {
		if a.UserID == userID && !a.CreatedAt.Before(start) && !a.CreatedAt.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivityStore) ListByCategory(userID uint, category string, limit int) ([]models.Activity, error) {
	var out []models.Activity
	for _, a := range f.items {
		if a.UserID == userID && a.Category == category {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeActivityStore) CountByType(userID uint, activityType string) (int64, error) {
	var n int64
	for _, a := range f.items {
		if a.UserID == userID && a.ActivityType == activityType {
			n++
		}
	}
	return n, nil
}

func (f *fakeActivityStore) CountByCategory(userID uint, category string) (int64, error) {
	var n int64
	for _, a := range f.items {
		if a.UserID == userID && a.Category == category {
			n++
		}
	}
	return n, nil
}

func (f *fakeActivityStore) CountByUser(userID uint) (int64, error) {
	var n int64
	for _, a := range f.items {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeActivityStore) UpdateCard(id uint, cardImageURL, cardStyle string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].CardImageURL = cardImageURL
			f.items[i].CardStyle = cardStyle
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeActivityStore) AddShareTarget(id uint, platform string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].SharedTo = append(f.items[i].SharedTo, platform)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeActivityStore) Delete(userID, id uint) error {
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type fakeUserStore struct {
	users         map[uint]*models.User
	streakUpdates int
	deltaErr      error
	badgeErr      error
}

func (f *fakeUserStore) ByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) ApplyActivityDelta(userID uint, points int, co2Kg float64) (*models.User, error) {
	if f.deltaErr != nil {
		return nil, f.deltaErr
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrUserMissing
	}
	u.TotalPoints += points
	u.TotalCO2Kg += co2Kg
	u.Level = utils.LevelFor(u.TotalPoints).Index
	now := time.Now()
	u.LastActivityAt = &now
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) UpdateStreak(userID uint, newStreak int) error {
	u, ok := f.users[userID]
	if !ok {
		return ErrUserMissing
	}
	f.streakUpdates++
	u.CurrentStreak = newStreak
	if newStreak > u.LongestStreak {
		u.LongestStreak = newStreak
	}
	return nil
}

func (f *fakeUserStore) UnlockBadges(userID uint, badgeIDs []string) error {
	if f.badgeErr != nil {
		return f.badgeErr
	}
	u, ok := f.users[userID]
	if !ok {
		return ErrUserMissing
	}
	for _, id := range badgeIDs {
		if !u.HasBadge(id) {
			u.Badges = append(u.Badges, id)
		}
	}
	return nil
}

type fakeStatsStore struct {
	mu           sync.Mutex
	days         map[string]*models.DailyStats
	incrementErr error
}

func (f *fakeStatsStore) Increment(userID uint, date string, points int, co2Kg float64, category string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := models.StatsID(userID, date)
	s, ok := f.days[id]
	if !ok {
		f.days[id] = &models.DailyStats{
			ID:            id,
			UserID:        userID,
			Date:          date,
			DailyPoints:   points,
			DailyCO2Kg:    co2Kg,
			ActivityCount: 1,
			Breakdown:     models.CountMap{category: 1},
		}
		return nil
	}
	s.DailyPoints += points
	s.DailyCO2Kg += co2Kg
	s.ActivityCount++
	s.Breakdown[category]++
	return nil
}

func (f *fakeStatsStore) ByDate(userID uint, date string) (*models.DailyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.days[models.StatsID(userID, date)]; ok {
		copied := *s
		return &copied, nil
	}
	return &models.DailyStats{
		ID:        models.StatsID(userID, date),
		UserID:    userID,
		Date:      date,
		Breakdown: models.CountMap{},
	}, nil
}

func (f *fakeStatsStore) Range(userID uint, startDate, endDate string) ([]models.DailyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DailyStats
	for _, s := range f.days {
		if s.UserID == userID && s.Date >= startDate && s.Date <= endDate {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakePhotoStore struct {
	saved   int
	saveErr error
}

func (f *fakePhotoStore) Save(userID uint, data []byte) (string, string, error) {
	if f.saveErr != nil {
		return "", "", f.saveErr
	}
	f.saved++
	return "/tmp/photos/1/photo.jpg", "/static/photos/1/photo.jpg", nil
}

type fakeStores struct {
	activities *fakeActivityStore
	users      *fakeUserStore
	stats      *fakeStatsStore
	photos     *fakePhotoStore
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		activities: &fakeActivityStore{},
		users: &fakeUserStore{users: map[uint]*models.User{
			1: {ID: 1, Username: "greta", Level: 1},
		}},
		stats:  &fakeStatsStore{days: map[string]*models.DailyStats{}},
		photos: &fakePhotoStore{},
	}
}
