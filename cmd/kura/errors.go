// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/fang"

	"github.com/kura-dev/kura/internal/dispatch"
	"github.com/kura-dev/kura/internal/hostbuild"
	"github.com/kura-dev/kura/internal/install"
	"github.com/kura-dev/kura/internal/issue"
	"github.com/kura-dev/kura/internal/workspace"
	"github.com/kura-dev/kura/pkg/kurapkg"
)

// classifyError maps a failure to its issue catalog entry and short
// suggestions for the one-line error output.
func classifyError(err error) (issue.Id, []string) {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return issue.ToolNotFoundId, []string{"Install the missing tool or set 'toolchain'/'vcs' in the config file"}
	case errors.Is(err, kurapkg.ErrUnresolvableSource):
		return issue.SourceUnresolvableId, []string{"Pass an existing directory or a repository URL"}
	case errors.Is(err, kurapkg.ErrRemoteManifestUnavailable),
		errors.Is(err, kurapkg.ErrLocalManifestUnavailable),
		errors.Is(err, kurapkg.ErrManifestFieldMissing):
		return issue.ManifestUnavailableId, []string{"Check that Cargo.toml exists and declares [package] name"}
	case errors.Is(err, kurapkg.ErrReservedName):
		return 0, []string{"Rename the package in its Cargo.toml"}
	case errors.Is(err, install.ErrCloneFailed):
		return issue.CloneFailedId, []string{"Check the repository URL and your network connection"}
	case errors.Is(err, hostbuild.ErrScaffoldInitFailed):
		return issue.ScaffoldInitFailedId, []string{"Run 'kura clean' and try again"}
	case errors.Is(err, hostbuild.ErrBuildFailed):
		return issue.BuildFailedId, []string{"Remove the package that fails to compile with 'kura remove <name>'"}
	case errors.Is(err, dispatch.ErrScriptNotFound):
		return issue.ScriptNotFoundId, []string{"Check the script path"}
	case errors.Is(err, workspace.ErrDataDirUnavailable):
		return issue.DataDirUnavailableId, nil
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId, nil
	default:
		return 0, nil
	}
}

// wrapFailure attaches operation context, suggestions and the catalog entry
// to a service error.
func wrapFailure(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	id, suggestions := classifyError(err)
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestions...).
		WithIssue(id).
		Wrap(err).
		BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError is the fang error handler. Verbose mode adds the catalog entry
// for known failure kinds.
func (a *App) renderError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.verbose))

	if !a.verbose {
		return
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	if entry := ae.CatalogIssue(); entry != nil {
		rendered, renderErr := entry.Render("dark")
		if renderErr != nil {
			a.logger.Warn("failed to render issue catalog entry", "issueID", entry.Id(), "err", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}
