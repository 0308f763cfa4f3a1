// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

func TestEntryPointTemplateHasOneMarker(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, strings.Count(EntryPointTemplate(), PreludeMarker))
}

func TestPreludeStatement(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`prelude.insert("koto_random", koto_random::make_module());`,
		PreludeStatement("koto-random"))
}

func TestRenderEntryPoint(t *testing.T) {
	t.Parallel()

	tmpl := "fn main() {\n    " + PreludeMarker + "\n}\n"

	tests := []struct {
		name    string
		tmpl    string
		names   []kurapkg.Name
		want    string
		wantErr bool
	}{
		{
			name:  "two packages in order",
			tmpl:  tmpl,
			names: []kurapkg.Name{"koto-random", "json"},
			want: "fn main() {\n    prelude.insert(\"koto_random\", koto_random::make_module());\n" +
				"prelude.insert(\"json\", json::make_module());\n}\n",
		},
		{
			name: "no packages",
			tmpl: tmpl,
			want: "fn main() {\n    \n}\n",
		},
		{
			name:    "missing marker",
			tmpl:    "fn main() {}\n",
			wantErr: true,
		},
		{
			name:    "duplicated marker",
			tmpl:    tmpl + PreludeMarker,
			names:   []kurapkg.Name{"a"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RenderEntryPoint(tt.tmpl, tt.names)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTemplatePlaceholder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderEntryPointEmbeddedTemplate(t *testing.T) {
	t.Parallel()

	got, err := RenderEntryPoint(EntryPointTemplate(), []kurapkg.Name{"koto-random"})
	require.NoError(t, err)
	assert.NotContains(t, got, PreludeMarker)
	assert.Contains(t, got, "koto_random::make_module()")
	assert.Contains(t, got, "koto.compile_and_run(&script)?;")
}
