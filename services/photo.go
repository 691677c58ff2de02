package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// FilesystemPhotoStore saves uploaded photos under a per-user directory tree
// below the configured media root. Filenames combine a timestamp with a
// random suffix so concurrent uploads never collide.
type FilesystemPhotoStore struct {
	baseDir string // e.g. "static"
}

// NewFilesystemPhotoStore creates a photo store rooted at baseDir.
func NewFilesystemPhotoStore(baseDir string) *FilesystemPhotoStore {
	return &FilesystemPhotoStore{baseDir: baseDir}
}

// Save writes the photo bytes into <base>/photos/<userID>/ and returns the
// absolute path together with the public URL.
func (p *FilesystemPhotoStore) Save(userID uint, data []byte) (string, string, error) {
	dir := filepath.Join(p.baseDir, "photos", strconv.FormatUint(uint64(userID), 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create photo directory: %w", err)
	}

	name := fmt.Sprintf("photo_%d_%s.jpg", time.Now().UnixNano(), uuid.NewString()[:8])
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write photo: %w", err)
	}

	abs, err := filepath.Abs(dst)
	if err != nil {
		abs = dst
	}
	url := fmt.Sprintf("/static/photos/%d/%s", userID, name)
	return abs, url, nil
}
