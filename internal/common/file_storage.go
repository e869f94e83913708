package common

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// FileStorage persists uploaded documents.
type FileStorage interface {
	// Save writes the content under a fresh timestamp-prefixed name and
	// returns the storage key and public URL.
	Save(ctx context.Context, fileName string, r io.Reader) (key string, url string, err error)

	// Open returns the stored content for key
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key; missing files are not an error
	Delete(ctx context.Context, key string) error
}

// LocalStorage implements FileStorage on the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
	now      func() time.Time
}

var _ FileStorage = (*LocalStorage)(nil)

func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./data/uploads"
	}

	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}, nil
}

func (s *LocalStorage) Save(_ context.Context, fileName string, r io.Reader) (string, string, error) {
	key := fmt.Sprintf("%d-%s", s.now().UnixMilli(), SanitizeFileName(fileName))
	fullPath := filepath.Join(s.basePath, key)

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(fullPath)
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(fullPath)
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}

	return key, s.baseURL + "/" + key, nil
}

func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve rejects keys that would escape basePath.
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.basePath, key), nil
}

// AllowedDocumentTypes is the upload allow-list: PDF, Word, Excel, plain
// text and CSV.
var AllowedDocumentTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"text/plain",
	"text/csv",
}

// DetectDocumentType sniffs the leading bytes of r. It returns the detected
// MIME type, whether it is allowed, and a reader that replays the sniffed
// bytes followed by the rest of r.
func DetectDocumentType(r io.Reader) (string, bool, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", false, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	allowed := false
	for _, m := range AllowedDocumentTypes {
		if mtype.Is(m) {
			allowed = true
			break
		}
	}

	return mtype.String(), allowed, io.MultiReader(bytes.NewReader(head), r), nil
}
