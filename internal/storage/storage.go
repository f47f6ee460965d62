// Package storage saves uploaded files (avatars, logos, CVs) under the media
// directory served at /media/.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Upload folders
const (
	FolderAvatars = "avatars"
	FolderLogos   = "logos"
	FolderCVs     = "cvs"
)

// MaxUploadSize caps a single uploaded file.
const MaxUploadSize = 10 << 20

var (
	ErrFileTooLarge    = errors.New("file exceeds the 10MB upload limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedExtensions = map[string][]string{
	FolderAvatars: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	FolderLogos:   {".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"},
	FolderCVs:     {".pdf", ".doc", ".docx", ".odt", ".txt"},
}

// Storage persists uploads and returns their media-relative path.
type Storage interface {
	Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, name string) error
}

// LocalStorage writes uploads below a root directory.
type LocalStorage struct {
	root string
	now  func() time.Time
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{root: root, now: time.Now}, nil
}

// Save stores file as <folder>/<yyyy>/<mm>/<uuid><ext>.
func (s *LocalStorage) Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if file.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed(folder, ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now()
	name := path.Join(folder, now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
	dst := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

// Delete removes a previously saved file. Missing files are ignored.
func (s *LocalStorage) Delete(_ context.Context, name string) error {
	if name == "" {
		return nil
	}
	clean := path.Clean("/" + name)
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Root is the directory served at /media/.
func (s *LocalStorage) Root() string {
	return s.root
}

func allowed(folder, ext string) bool {
	for _, e := range allowedExtensions[folder] {
		if e == ext {
			return true
		}
	}
	return false
}
