package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/pkg/envutil"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

// Store keeps user-uploaded media on local disk. Paths it returns are what
// gets recorded on the owning record.
type Store interface {
	SaveImage(data []byte, originalName string) (string, error)
}

type store struct {
	log *logger.Logger
	dir string
}

func NewStore(log *logger.Logger) (Store, error) {
	dir := envutil.GetEnv("MEDIA_DIR", "./media", log)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", dir, err)
	}
	return &store{log: log.With("service", "MediaStore"), dir: dir}, nil
}

func (s *store) SaveImage(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image %s: %w", path, err)
	}
	return path, nil
}
