// SPDX-License-Identifier: MPL-2.0

package kurapkg

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestFileName is the build manifest every package root carries.
	ManifestFileName = "Cargo.toml"

	// MaxManifestSize bounds how much of a manifest is read.
	MaxManifestSize = 1 << 20

	nameField = "package.name"
)

// ParseManifestName decodes a Cargo.toml document and returns its declared
// package name. location is only used in error messages.
func ParseManifestName(data []byte, location string, remote bool) (Name, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", &ManifestUnavailableError{Location: location, Remote: remote, Err: fmt.Errorf("parse: %w", err)}
	}

	section, ok := doc["package"].(map[string]any)
	if !ok {
		return "", &ManifestFieldMissingError{Location: location, Field: nameField}
	}
	name, ok := section["name"].(string)
	if !ok || name == "" {
		return "", &ManifestFieldMissingError{Location: location, Field: nameField}
	}

	n := Name(name)
	if err := n.Validate(); err != nil {
		return "", fmt.Errorf("manifest %s: %w", location, err)
	}
	return n, nil
}

// readLimited reads at most MaxManifestSize bytes and fails if more remain.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxManifestSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxManifestSize {
		return nil, fmt.Errorf("manifest exceeds %d bytes", MaxManifestSize)
	}
	return data, nil
}
