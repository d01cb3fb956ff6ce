package ffmpeg

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
)

// ProgressWriter consumes the key=value stream ffmpeg writes for
// "-progress pipe:1" and reports the encoded frame count.
//
// OnFrame is called for every "frame=N" line; OnEnd once for "progress=end".
// Partial lines are buffered across writes.
type ProgressWriter struct {
	OnFrame func(frame int)
	OnEnd   func()

	mu   sync.Mutex
	buf  []byte
	last int
}

// Write implements io.Writer.
func (w *ProgressWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSpace(string(w.buf[:idx]))
		w.buf = w.buf[idx+1:]
		w.handle(line)
	}
	return len(p), nil
}

// Frame returns the last frame number reported.
func (w *ProgressWriter) Frame() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func (w *ProgressWriter) handle(line string) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return
	}
	switch strings.TrimSpace(key) {
	case "frame":
		frame, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || frame < w.last {
			return
		}
		w.last = frame
		if w.OnFrame != nil {
			w.OnFrame(frame)
		}
	case "progress":
		if strings.TrimSpace(value) == "end" && w.OnEnd != nil {
			w.OnEnd()
		}
	}
}
