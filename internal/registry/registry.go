// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"iter"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

const maxSuggestions = 3

type (
	// Registry is an insertion-ordered set of packages keyed by name.
	Registry struct {
		order []kurapkg.Name
		byKey map[kurapkg.Name]kurapkg.Package
	}

	// names adapts a name slice to fuzzy.Source.
	names []kurapkg.Name
)

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byKey: make(map[kurapkg.Name]kurapkg.Package)}
}

// Len returns the number of installed packages.
func (r *Registry) Len() int { return len(r.order) }

// Contains reports whether a package named name is installed.
func (r *Registry) Contains(name kurapkg.Name) bool {
	_, ok := r.byKey[name]
	return ok
}

// Get returns the package named name.
func (r *Registry) Get(name kurapkg.Name) (kurapkg.Package, bool) {
	pkg, ok := r.byKey[name]
	return pkg, ok
}

// Install adds pkg unless a package with the same name already exists.
// It reports whether the registry changed; an existing entry is never replaced.
func (r *Registry) Install(pkg kurapkg.Package) bool {
	if r.Contains(pkg.Name) {
		return false
	}
	r.order = append(r.order, pkg.Name)
	r.byKey[pkg.Name] = pkg
	return true
}

// Remove deletes the package named name and reports whether it was present.
func (r *Registry) Remove(name kurapkg.Name) bool {
	if !r.Contains(name) {
		return false
	}
	delete(r.byKey, name)
	r.order = slices.DeleteFunc(r.order, func(n kurapkg.Name) bool { return n == name })
	return true
}

// List yields each package name with its kind in installation order.
func (r *Registry) List() iter.Seq2[kurapkg.Name, kurapkg.Kind] {
	return func(yield func(kurapkg.Name, kurapkg.Kind) bool) {
		for _, name := range r.order {
			if !yield(name, r.byKey[name].Kind) {
				return
			}
		}
	}
}

// Packages returns a copy of all packages in installation order.
func (r *Registry) Packages() []kurapkg.Package {
	out := make([]kurapkg.Package, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byKey[name])
	}
	return out
}

// Suggest returns up to three installed names that fuzzily match name,
// best match first.
func (r *Registry) Suggest(name kurapkg.Name) []kurapkg.Name {
	if name == "" || len(r.order) == 0 {
		return nil
	}
	matches := fuzzy.FindFrom(string(name), names(r.order))
	out := make([]kurapkg.Name, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.order[m.Index])
	}
	return out
}

func (n names) String(i int) string { return string(n[i]) }

func (n names) Len() int { return len(n) }
