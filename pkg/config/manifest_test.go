package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "precache.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifestEmptyPathIsDefault(t *testing.T) {
	manifest, err := LoadManifest("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultManifest(), manifest); diff != "" {
		t.Fatal(diff)
	}
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
offlinePage: /offline.html
assets:
  - /offline.html
  - /css/storefront.css
  - /js/app.js
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}

	expected := Manifest{
		OfflinePage: "/offline.html",
		Assets:      []string{"/offline.html", "/css/storefront.css", "/js/app.js"},
	}
	if diff := cmp.Diff(expected, manifest); diff != "" {
		t.Fatal(diff)
	}
}

func TestLoadManifestAppendsOfflinePage(t *testing.T) {
	path := writeManifest(t, `
offlinePage: /fallback.html
assets:
  - /favicon.ico
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"/favicon.ico", "/fallback.html"}, manifest.Assets); diff != "" {
		t.Fatal(diff)
	}
}

func TestLoadManifestRequiresOfflinePage(t *testing.T) {
	path := writeManifest(t, `
assets:
  - /favicon.ico
`)

	if _, err := LoadManifest(path); err == nil {
		t.Fatal("expected an error for a manifest without an offlinePage")
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing manifest file")
	}
}
