package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifloop/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "scoring", "compare", "ffmpeg exited", base)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrExternalTool)
	assert.ErrorIs(t, err, base)
	for _, fragment := range []string{"scoring", "compare", "ffmpeg exited"} {
		assert.Contains(t, err.Error(), fragment)
	}
}

func TestWrapWithoutMarkerDefaultsToExternalTool(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	assert.ErrorIs(t, err, services.ErrExternalTool)
	assert.Contains(t, err.Error(), "service failure")
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrParse, "scoring", "extract", "marker missing", nil), "parse"},
		{fmt.Errorf("outer: %w", services.Wrap(services.ErrCacheIO, "cache", "open", "", nil)), "cache_io"},
		{services.Wrap(services.ErrConfiguration, "loop", "enumerate", "no pairs", nil), "configuration"},
		{services.Wrap(services.ErrExternalTool, "ffmpeg", "run", "", nil), "external_tool"},
		{services.Wrap(services.ErrNotAnalyzed, "cli", "render", "pair (1,4) has no cached score", nil), "not_analyzed"},
		{errors.New("plain"), "unknown"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, services.Kind(tc.err), "Kind(%v)", tc.err)
	}
}

func TestHintsMatchKind(t *testing.T) {
	configuration := services.Hint(services.Wrap(services.ErrConfiguration, "", "", "x", nil))
	assert.Contains(t, configuration, "--skip-frames")

	notAnalyzed := services.Hint(services.Wrap(services.ErrNotAnalyzed, "cli", "render", "x", nil))
	assert.Contains(t, notAnalyzed, "gifloop analyze")
	assert.NotEqual(t, configuration, notAnalyzed)

	assert.Empty(t, services.Hint(errors.New("plain")))
}
