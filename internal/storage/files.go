package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdfchat/internal/helper"
	"pdfchat/internal/models"
)

// FileStore is byte-addressable document storage keyed by session id and
// filename, rooted at a single upload directory.
type FileStore struct {
	root    string
	allowed map[string]bool
}

func NewFileStore(root string, allowedExtensions []string) (*FileStore, error) {
	if err := helper.CreateFolder(root); err != nil {
		return nil, fmt.Errorf("creating upload root: %w", err)
	}
	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}
	return &FileStore{root: root, allowed: allowed}, nil
}

// Save writes one uploaded document under the session's folder and returns
// the stored path. The filename is sanitized and its extension checked
// against the allowlist.
func (f *FileStore) Save(sessionID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !f.allowed[ext] {
		return "", fmt.Errorf("%w: invalid file type %q", models.ErrValidation, filename)
	}

	dir := filepath.Join(f.root, sessionID)
	if err := helper.CreateFolder(dir); err != nil {
		return "", fmt.Errorf("creating session folder: %w", err)
	}

	path := filepath.Join(dir, sanitizeFilename(filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// List returns the stored paths for a session in a stable order.
func (f *FileStore) List(sessionID string) ([]string, error) {
	dir := filepath.Join(f.root, sessionID)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Remove deletes the session's folder and everything in it.
func (f *FileStore) Remove(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", models.ErrValidation)
	}
	return os.RemoveAll(filepath.Join(f.root, sessionID))
}

// sanitizeFilename keeps letters, digits, dash, underscore and dot, and
// strips any path components.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}
