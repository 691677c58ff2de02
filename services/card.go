package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/echohabit/server/cards"
	"github.com/echohabit/server/models"
	"github.com/echohabit/server/utils"
)

// Share platforms accepted by the card share recorder. The named platforms
// match the mobile share sheet; "link" covers copy-link shares.
var sharePlatforms = map[string]bool{
	"instagram": true,
	"tiktok":    true,
	"whatsapp":  true,
	"link":      true,
}

// ErrUnknownPlatform is returned when a share targets a platform the app
// does not track.
var ErrUnknownPlatform = errors.New("unknown share platform")

// CardService generates impact-card bitmaps for activities and records where
// they were shared.
type CardService struct {
	activities ActivityStore
	users      UserStore
	renderer   *cards.Renderer
	mediaDir   string
}

// NewCardService creates a CardService writing cards below mediaDir.
func NewCardService(activities ActivityStore, users UserStore, renderer *cards.Renderer, mediaDir string) *CardService {
	return &CardService{
		activities: activities,
		users:      users,
		renderer:   renderer,
		mediaDir:   mediaDir,
	}
}

// Generate renders a card for the activity in the requested style, stores
// the PNG under the media root and persists the card reference on the
// activity. The activity must belong to userID.
func (c *CardService) Generate(userID, activityID uint, style string) (*models.Activity, error) {
	activity, err := c.activities.ByID(activityID)
	if err != nil {
		return nil, err
	}
	if activity.UserID != userID {
		return nil, ErrNotFound
	}
	if !models.ValidCardStyle(style) {
		style = models.CardStyleGlassmorphism
	}

	user, err := c.users.ByID(userID)
	if err != nil {
		return nil, err
	}

	img, err := c.renderer.Render(style, cards.Data{
		DisplayName:  displayName(user),
		ActivityName: utils.ActivityDisplayName(activity.ActivityType),
		Caption:      activity.Caption,
		Points:       activity.Points,
		CO2SavedKg:   activity.CO2SavedKg,
		TotalCO2Kg:   user.TotalCO2Kg,
		Streak:       user.CurrentStreak,
		LevelName:    utils.LevelFor(user.TotalPoints).Name,
		Date:         utils.DateString(activity.CreatedAt),
		Photo:        loadPhoto(activity.PhotoPath),
	})
	if err != nil {
		return nil, fmt.Errorf("render card: %w", err)
	}

	url, err := c.writeCard(userID, activityID, style, img)
	if err != nil {
		return nil, err
	}
	if err := c.activities.UpdateCard(activityID, url, style); err != nil {
		return nil, err
	}

	activity.CardImageURL = url
	activity.CardStyle = style
	return activity, nil
}

// RecordShare appends the platform to the activity's share list.
func (c *CardService) RecordShare(userID, activityID uint, platform string) error {
	if !sharePlatforms[platform] {
		return ErrUnknownPlatform
	}
	activity, err := c.activities.ByID(activityID)
	if err != nil {
		return err
	}
	if activity.UserID != userID {
		return ErrNotFound
	}
	return c.activities.AddShareTarget(activityID, platform)
}

func (c *CardService) writeCard(userID, activityID uint, style string, img image.Image) (string, error) {
	dir := filepath.Join(c.mediaDir, "cards", strconv.FormatUint(uint64(userID), 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create card directory: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode card: %w", err)
	}

	name := fmt.Sprintf("card_%d_%s.png", activityID, style)
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write card: %w", err)
	}
	return fmt.Sprintf("/static/cards/%d/%s", userID, name), nil
}

// loadPhoto reads and decodes the activity photo. A missing or unreadable
// photo is not fatal; the renderer substitutes a background.
func loadPhoto(path string) image.Image {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil
	}
	return img
}

func displayName(u *models.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
