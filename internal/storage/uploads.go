package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedExtension = errors.New("storage: file extension not allowed")
	ErrTooLarge             = errors.New("storage: file exceeds size limit")
)

var allowedExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// Uploads receives multipart resume files into a scratch directory. Files
// are transient: the caller removes them after extraction and the janitor
// sweeps anything left behind.
type Uploads struct {
	dir      string
	maxBytes int64
	logger   *zap.Logger
}

func NewUploads(dir string, maxBytes int64, logger *zap.Logger) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploads{dir: dir, maxBytes: maxBytes, logger: logger}, nil
}

// Dir returns the scratch directory so the janitor knows what to sweep.
func (u *Uploads) Dir() string { return u.dir }

// Save writes the uploaded part under a fresh uuid name, keeping the
// original extension for type dispatch. The caller owns the returned path
// and must Remove it on every exit path.
func (u *Uploads) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExts[ext] {
		return "", ErrUnsupportedExtension
	}
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	dst := filepath.Join(u.dir, uuid.New().String()+ext)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}

	u.logger.Debug("upload saved",
		zap.String("file", fh.Filename),
		zap.String("path", dst),
		zap.Int64("bytes", fh.Size))
	return dst, nil
}

// Remove deletes a stored upload. A file that is already gone is fine.
func (u *Uploads) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		u.logger.Warn("removing upload", zap.String("path", path), zap.Error(err))
	}
}
