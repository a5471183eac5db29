package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Dir serves the asset tree from a local directory instead of a remote
// origin. Missing files surface as 404 *StatusError so callers see the same
// error shape as with Client.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at path.
func NewDir(path string) (*Dir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir: %s is not a directory", path)
	}
	return &Dir{root: path}, nil
}

// FetchJSON reads and decodes the JSON document at the given slash path.
func (d *Dir) FetchJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, _, err := d.Asset(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Asset reads a raw file, returning its bytes and a content type guessed
// from the extension.
func (d *Dir) Asset(path string) ([]byte, string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(path))
	if rel, err := filepath.Rel(d.root, full); err != nil || strings.HasPrefix(rel, "..") {
		return nil, "", &StatusError{Status: http.StatusNotFound, URL: path}
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", &StatusError{Status: http.StatusNotFound, URL: path}
		}
		return nil, "", err
	}
	ct := mime.TypeByExtension(filepath.Ext(full))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return data, ct, nil
}
