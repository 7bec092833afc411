package media

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/uzeyirmammadli/catcare-sub001/internal/config"
	"github.com/uzeyirmammadli/catcare-sub001/pkg/e"
)

// Store persists uploaded files and yields servable URLs. The production
// deployment fronts object storage; this local-disk implementation keeps
// the multipart endpoints working end to end.
type Store interface {
	Save(kind string, fh *multipart.FileHeader) (string, error)
}

var allowedExt = map[string]map[string]struct{}{
	"photo": {".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".gif": {}},
	"video": {".mp4": {}, ".webm": {}, ".mov": {}},
	"pdf":   {".pdf": {}},
}

type LocalStore struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

func NewLocalStore(cfg config.UploadsConfig, logger *slog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, e.Wrap("media.NewLocalStore", err)
	}
	return &LocalStore{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}, nil
}

func (s *LocalStore) Save(kind string, fh *multipart.FileHeader) (string, error) {
	const op = "media.LocalStore.Save"

	exts, ok := allowedExt[kind]
	if !ok {
		return "", fmt.Errorf("%s: unknown media kind %q: %w", op, kind, e.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := exts[ext]; !ok {
		return "", e.Validation(kind, fmt.Sprintf("unsupported file type %q", ext))
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, e.ErrStorage)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dstPath := filepath.Join(s.dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		s.logger.Error("create upload file failed", slog.String("op", op), slog.Any("error", err))
		return "", fmt.Errorf("%s: %w", op, e.ErrStorage)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.logger.Error("write upload file failed", slog.String("op", op), slog.Any("error", err))
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("%s: %w", op, e.ErrStorage)
	}

	return path.Join(s.baseURL, name), nil
}
