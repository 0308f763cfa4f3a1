// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

func remotePkg(name string) kurapkg.Package {
	return kurapkg.Package{
		Name:      kurapkg.Name(name),
		Kind:      kurapkg.KindRemote,
		Locator:   "https://github.com/acme/" + name,
		LocalPath: "/data/kura/crates/" + name,
	}
}

func localPkg(name string) kurapkg.Package {
	return kurapkg.Package{Name: kurapkg.Name(name), Kind: kurapkg.KindLocal, LocalPath: "/src/" + name}
}

func collect(r *Registry) []kurapkg.Name {
	var out []kurapkg.Name
	for name := range r.List() {
		out = append(out, name)
	}
	return out
}

func TestRegistry_InstallKeepsFirstEntry(t *testing.T) {
	t.Parallel()

	r := New()
	require.True(t, r.Install(remotePkg("koto-random")))

	replacement := localPkg("koto-random")
	assert.False(t, r.Install(replacement))

	got, ok := r.Get("koto-random")
	require.True(t, ok)
	assert.Equal(t, kurapkg.KindRemote, got.Kind)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ListPreservesOrder(t *testing.T) {
	t.Parallel()

	r := New()
	r.Install(localPkg("zeta"))
	r.Install(remotePkg("alpha"))
	r.Install(localPkg("mid"))

	assert.Equal(t, []kurapkg.Name{"zeta", "alpha", "mid"}, collect(r))

	kinds := map[kurapkg.Name]kurapkg.Kind{}
	for name, kind := range r.List() {
		kinds[name] = kind
	}
	assert.Equal(t, kurapkg.KindRemote, kinds["alpha"])
	assert.Equal(t, kurapkg.KindLocal, kinds["zeta"])
}

func TestRegistry_ListStopsEarly(t *testing.T) {
	t.Parallel()

	r := New()
	r.Install(localPkg("a"))
	r.Install(localPkg("b"))

	var seen int
	for range r.List() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestRegistry_Remove(t *testing.T) {
	t.Parallel()

	r := New()
	r.Install(localPkg("a"))
	r.Install(localPkg("b"))
	r.Install(localPkg("c"))

	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	assert.False(t, r.Remove("missing"))
	assert.Equal(t, []kurapkg.Name{"a", "c"}, collect(r))
	assert.False(t, r.Contains("b"))

	require.True(t, r.Install(localPkg("b")))
	assert.Equal(t, []kurapkg.Name{"a", "c", "b"}, collect(r))
}

func TestRegistry_EmptyList(t *testing.T) {
	t.Parallel()

	r := New()
	assert.Empty(t, collect(r))
	assert.Empty(t, r.Packages())
	assert.Zero(t, r.Len())
}

func TestRegistry_Suggest(t *testing.T) {
	t.Parallel()

	r := New()
	for _, n := range []string{"koto-random", "koto-json", "koto-regex", "koto-yaml", "other"} {
		r.Install(localPkg(n))
	}

	tests := []struct {
		name  string
		query kurapkg.Name
		want  []kurapkg.Name
		none  bool
	}{
		{name: "typo", query: "kotorandom", want: []kurapkg.Name{"koto-random"}},
		{name: "empty query", query: "", none: true},
		{name: "no match", query: "zzz", none: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := r.Suggest(tt.query)
			if tt.none {
				assert.Empty(t, got)
				return
			}
			for _, w := range tt.want {
				assert.True(t, slices.Contains(got, w), "suggestions %v missing %s", got, w)
			}
		})
	}

	assert.LessOrEqual(t, len(r.Suggest("koto")), maxSuggestions)
}
