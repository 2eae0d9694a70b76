// Package config holds the precache manifest: the one declared set of
// offline-fallback assets consumed by both install and activation, instead
// of URL literals scattered across handlers.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Manifest struct {
	// OfflinePage is the document served when a navigation misses both
	// network and cache.
	OfflinePage string `yaml:"offlinePage"`
	// Assets are the URLs pre-cached at install time. OfflinePage is
	// always part of the set.
	Assets []string `yaml:"assets"`
}

func DefaultManifest() Manifest {
	return Manifest{
		OfflinePage: "/offline.html",
		Assets:      []string{"/offline.html", "/favicon.ico"},
	}
}

func LoadManifest(path string) (Manifest, error) {
	if path == "" {
		return DefaultManifest(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	var manifest Manifest
	if err = yaml.Unmarshal(raw, &manifest); err != nil {
		return Manifest{}, err
	}

	if manifest.OfflinePage == "" {
		return Manifest{}, errors.New("precache manifest needs an offlinePage")
	}

	found := false
	for _, asset := range manifest.Assets {
		if asset == manifest.OfflinePage {
			found = true
			break
		}
	}
	if !found {
		manifest.Assets = append(manifest.Assets, manifest.OfflinePage)
	}

	return manifest, nil
}
