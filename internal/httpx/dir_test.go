package httpx

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestDirFetchJSON(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "assets", "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "registry.json"), []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err := NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	var doc struct {
		OK bool `json:"ok"`
	}
	if err := dir.FetchJSON(t.Context(), "assets/data/registry.json", &doc); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if !doc.OK {
		t.Error("decoded document mismatch")
	}

	err = dir.FetchJSON(t.Context(), "assets/data/missing.json", &doc)
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Errorf("missing file error = %v, want 404 StatusError", err)
	}
}

func TestDirAssetRejectsTraversal(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := dir.Asset("../etc/passwd"); err == nil {
		t.Error("expected traversal to be rejected")
	}
}

func TestNewDirRejectsMissing(t *testing.T) {
	if _, err := NewDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
