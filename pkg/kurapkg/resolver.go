// SPDX-License-Identifier: MPL-2.0

package kurapkg

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DefaultRemotePrefix is the only remote host recognized out of the box.
const DefaultRemotePrefix = "https://github.com/"

const defaultFetchTimeout = 30 * time.Second

type (
	// Resolver turns a raw source string into a Package.
	Resolver struct {
		// CratesDir is where remote packages are cloned; it determines their LocalPath.
		CratesDir string
		// RemotePrefixes lists URL prefixes treated as remote sources.
		// Empty means [DefaultRemotePrefix].
		RemotePrefixes []string
		// ReservedNames are package names that cannot be installed.
		ReservedNames []Name
		// HTTPClient fetches remote manifests. Nil uses a client with a 30s timeout.
		HTTPClient *http.Client
	}
)

// NewResolver creates a Resolver for the given crates directory.
func NewResolver(cratesDir string, reserved ...Name) *Resolver {
	return &Resolver{CratesDir: cratesDir, ReservedNames: reserved}
}

// IsRemote reports whether source starts with one of the remote prefixes.
func (r *Resolver) IsRemote(source string) bool {
	for _, prefix := range r.prefixes() {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}
	return false
}

// Resolve classifies source and reads the package's manifest to learn its
// canonical name. It never modifies the filesystem.
func (r *Resolver) Resolve(ctx context.Context, source string) (Package, error) {
	var (
		pkg Package
		err error
	)
	switch {
	case r.IsRemote(source):
		pkg, err = r.resolveRemote(ctx, source)
	case pathExists(source):
		pkg, err = r.resolveLocal(source)
	default:
		return Package{}, &UnresolvableSourceError{Source: source}
	}
	if err != nil {
		return Package{}, err
	}

	if slices.Contains(r.ReservedNames, pkg.Name) {
		return Package{}, &ReservedNameError{Name: pkg.Name}
	}
	return pkg, nil
}

// RawManifestURL derives the raw manifest location for a remote repository
// URL on its main branch.
func RawManifestURL(repoURL string) string {
	base := strings.TrimRight(repoURL, "/")
	base = strings.TrimSuffix(base, ".git")
	return base + "/raw/main/" + ManifestFileName
}

func (r *Resolver) resolveRemote(ctx context.Context, source string) (Package, error) {
	url := RawManifestURL(source)
	data, err := r.fetch(ctx, url)
	if err != nil {
		return Package{}, &ManifestUnavailableError{Location: url, Remote: true, Err: err}
	}

	name, err := ParseManifestName(data, url, true)
	if err != nil {
		return Package{}, err
	}

	return Package{
		Name:      name,
		Kind:      KindRemote,
		Locator:   source,
		LocalPath: filepath.Join(r.CratesDir, name.String()),
	}, nil
}

func (r *Resolver) resolveLocal(source string) (Package, error) {
	root, err := canonicalize(source)
	if err != nil {
		return Package{}, &ManifestUnavailableError{Location: source, Err: err}
	}

	manifestPath := filepath.Join(root, ManifestFileName)
	f, err := os.Open(manifestPath)
	if err != nil {
		return Package{}, &ManifestUnavailableError{Location: manifestPath, Err: err}
	}
	defer func() { _ = f.Close() }()

	data, err := readLimited(f)
	if err != nil {
		return Package{}, &ManifestUnavailableError{Location: manifestPath, Err: err}
	}

	name, err := ParseManifestName(data, manifestPath, false)
	if err != nil {
		return Package{}, err
	}

	return Package{Name: name, Kind: KindLocal, LocalPath: root}, nil
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func (r *Resolver) client() *http.Client {
	if r.HTTPClient != nil {
		return r.HTTPClient
	}
	return &http.Client{Timeout: defaultFetchTimeout}
}

func (r *Resolver) prefixes() []string {
	if len(r.RemotePrefixes) == 0 {
		return []string{DefaultRemotePrefix}
	}
	return r.RemotePrefixes
}

// canonicalize returns the absolute, symlink-free form of path.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

func pathExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
