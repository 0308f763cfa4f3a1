// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

const (
	binKey          = "bin"
	dependenciesKey = "dependencies"
	pathKey         = "path"
	entryPointPath  = "src/main.rs"
)

// RewriteManifest returns the host manifest with its binary target pinned to
// name and its path dependencies replaced by pkgs. Dependencies that are not
// path dependencies, such as the runtime crate, are kept as they are.
func RewriteManifest(data []byte, name string, pkgs []kurapkg.Package) ([]byte, error) {
	doc := map[string]any{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse host manifest: %w", err)
	}

	doc[binKey] = []any{map[string]any{
		"name":  name,
		pathKey: entryPointPath,
	}}

	deps, ok := doc[dependenciesKey].(map[string]any)
	if !ok {
		deps = map[string]any{}
		doc[dependenciesKey] = deps
	}
	for dep, spec := range deps {
		if isPathDependency(spec) {
			delete(deps, dep)
		}
	}
	for _, pkg := range pkgs {
		deps[pkg.Name.String()] = map[string]any{pathKey: pkg.LocalPath}
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode host manifest: %w", err)
	}
	return out, nil
}

// PathDependencies returns the path of every path dependency in a manifest,
// keyed by dependency name.
func PathDependencies(data []byte) (map[string]string, error) {
	var doc struct {
		Dependencies map[string]any `toml:"dependencies"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse host manifest: %w", err)
	}

	out := make(map[string]string)
	for dep, spec := range doc.Dependencies {
		if !isPathDependency(spec) {
			continue
		}
		if p, ok := spec.(map[string]any)[pathKey].(string); ok {
			out[dep] = p
		}
	}
	return out, nil
}

func isPathDependency(spec any) bool {
	table, ok := spec.(map[string]any)
	if !ok {
		return false
	}
	_, ok = table[pathKey]
	return ok
}
