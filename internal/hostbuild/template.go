// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

// PreludeMarker is the line in the entry-point template replaced with one
// registration statement per package.
const PreludeMarker = "// <INSERT_PRELUDE_VALUES>"

// ErrTemplatePlaceholder is returned when a template does not contain exactly
// one PreludeMarker.
var ErrTemplatePlaceholder = errors.New("entry-point template must contain exactly one prelude marker")

//go:embed template_main.rs
var entryPointTemplate string

// EntryPointTemplate returns the embedded entry-point template.
func EntryPointTemplate() string { return entryPointTemplate }

// PreludeStatement returns the statement that registers a package's module
// in the script prelude under its module identifier.
func PreludeStatement(name kurapkg.Name) string {
	id := name.ModuleIdent()
	return fmt.Sprintf("prelude.insert(%q, %s::make_module());", id, id)
}

// RenderEntryPoint replaces the single PreludeMarker in template with the
// registration statements for names, in order, joined by newlines. With no
// names the marker is replaced by nothing.
func RenderEntryPoint(template string, names []kurapkg.Name) (string, error) {
	if n := strings.Count(template, PreludeMarker); n != 1 {
		return "", fmt.Errorf("%w: found %d", ErrTemplatePlaceholder, n)
	}

	stmts := make([]string, len(names))
	for i, name := range names {
		stmts[i] = PreludeStatement(name)
	}
	return strings.Replace(template, PreludeMarker, strings.Join(stmts, "\n"), 1), nil
}
