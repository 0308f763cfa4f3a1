// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeRelease, false},
		{"release", ModeRelease, false},
		{"Debug", ModeDebug, false},
		{" debug ", ModeDebug, false},
		{"fast", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_BuildArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"build"}, ModeDebug.BuildArgs())
	assert.Equal(t, []string{"build", "--release"}, ModeRelease.BuildArgs())
	assert.Equal(t, "debug", ModeDebug.ProfileDir())
	assert.Equal(t, "release", ModeRelease.ProfileDir())
}
