// SPDX-License-Identifier: MPL-2.0

package kurapkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    Kind
		wantErr bool
	}{
		{KindRemote, false},
		{KindLocal, false},
		{"", true},
		{"git", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			err := tt.kind.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKind)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    Name
		wantErr bool
	}{
		{"koto-random", false},
		{"koto_json", false},
		{"", true},
		{"   ", true},
		{" padded", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
		{"c:", true},
		{"CON", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			t.Parallel()
			err := tt.name.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestName_ModuleIdent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "koto_random", Name("koto-random").ModuleIdent())
	assert.Equal(t, "plain", Name("plain").ModuleIdent())
}

func TestPackage_Validate(t *testing.T) {
	t.Parallel()

	valid := Package{Name: "koto-random", Kind: KindRemote, Locator: "https://github.com/a/b", LocalPath: "/data/crates/koto-random"}
	assert.NoError(t, valid.Validate())

	local := Package{Name: "koto-json", Kind: KindLocal, LocalPath: "/src/koto-json"}
	assert.NoError(t, local.Validate())

	noLocator := valid
	noLocator.Locator = ""
	assert.Error(t, noLocator.Validate())

	broken := Package{Name: "", Kind: "svn"}
	err := broken.Validate()
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, ErrInvalidKind)
}
