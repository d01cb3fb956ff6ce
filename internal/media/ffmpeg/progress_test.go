package ffmpeg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressWriterReportsFrames(t *testing.T) {
	var frames []int
	ended := 0
	w := &ProgressWriter{
		OnFrame: func(frame int) { frames = append(frames, frame) },
		OnEnd:   func() { ended++ },
	}

	chunks := []string{
		"frame=12\nfps=0.0\nprogress=continue\nfra",
		"me=30\nbitrate=N/A\n",
		"frame=bogus\nframe=24\n",
		"frame=45\nprogress=end\n",
	}
	for _, chunk := range chunks {
		_, err := fmt.Fprint(w, chunk)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{12, 30, 45}, frames)
	assert.Equal(t, 1, ended)
	assert.Equal(t, 45, w.Frame())
}

func TestProgressWriterWithoutCallbacks(t *testing.T) {
	w := &ProgressWriter{}
	_, err := w.Write([]byte("frame=7\nprogress=end\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, w.Frame())
}
