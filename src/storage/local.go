package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores media on disk. Files are written under dir and served by the
// HTTP layer under publicURL.
type Local struct {
	dir       string
	publicURL string
}

func NewLocal(dir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (l *Local) Save(ctx context.Context, field, filename, contentType string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%s-%s%s", field, uuid.New().String(), filepath.Ext(filename))

	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.publicURL + "/" + name, nil
}

// Delete removes the file behind a URL previously returned by Save. URLs this
// store did not produce, and files already gone, are ignored.
func (l *Local) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, l.publicURL+"/")
	if !ok || name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
