// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

const freshManifest = `[package]
name = "koto-local"
version = "0.1.0"
edition = "2021"

[dependencies]
koto = "0.15.3"
`

func TestRewriteManifest(t *testing.T) {
	t.Parallel()

	pkgs := []kurapkg.Package{
		{Name: "koto-random", Kind: kurapkg.KindRemote, Locator: "https://github.com/a/b", LocalPath: "/data/kura/crates/koto-random"},
		{Name: "koto-json", Kind: kurapkg.KindLocal, LocalPath: "/src/koto-json"},
	}

	out, err := RewriteManifest([]byte(freshManifest), "koto-local", pkgs)
	require.NoError(t, err)

	deps, err := PathDependencies(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"koto-random": "/data/kura/crates/koto-random",
		"koto-json":   "/src/koto-json",
	}, deps)

	var doc struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
		Bin []struct {
			Name string `toml:"name"`
			Path string `toml:"path"`
		} `toml:"bin"`
		Dependencies map[string]any `toml:"dependencies"`
	}
	require.NoError(t, toml.Unmarshal(out, &doc))
	assert.Equal(t, "koto-local", doc.Package.Name)
	require.Len(t, doc.Bin, 1)
	assert.Equal(t, "koto-local", doc.Bin[0].Name)
	assert.Equal(t, "src/main.rs", doc.Bin[0].Path)
	assert.Equal(t, "0.15.3", doc.Dependencies["koto"], "runtime crate is preserved")
}

func TestRewriteManifestDropsRemovedPackages(t *testing.T) {
	t.Parallel()

	first, err := RewriteManifest([]byte(freshManifest), "koto-local", []kurapkg.Package{
		{Name: "a", Kind: kurapkg.KindLocal, LocalPath: "/src/a"},
		{Name: "b", Kind: kurapkg.KindLocal, LocalPath: "/src/b"},
	})
	require.NoError(t, err)

	second, err := RewriteManifest(first, "koto-local", []kurapkg.Package{
		{Name: "b", Kind: kurapkg.KindLocal, LocalPath: "/src/b"},
	})
	require.NoError(t, err)

	deps, err := PathDependencies(second)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "/src/b"}, deps)

	empty, err := RewriteManifest(second, "koto-local", nil)
	require.NoError(t, err)
	deps, err = PathDependencies(empty)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestRewriteManifestCreatesDependencies(t *testing.T) {
	t.Parallel()

	out, err := RewriteManifest([]byte("[package]\nname = \"koto-local\"\n"), "koto-local", []kurapkg.Package{
		{Name: "x", Kind: kurapkg.KindLocal, LocalPath: "/src/x"},
	})
	require.NoError(t, err)

	deps, err := PathDependencies(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x": "/src/x"}, deps)
}

func TestRewriteManifestRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := RewriteManifest([]byte("[package"), "koto-local", nil)
	assert.Error(t, err)
}
