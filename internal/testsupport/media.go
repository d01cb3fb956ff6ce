package testsupport

import (
	"fmt"
	"path/filepath"
	"testing"
)

// StubMedia describes the fake source video served by the stub binaries.
//
// The ffprobe stub reports a single video stream at FrameRate with Frames
// frames. The ffmpeg stub writes Frames numbered PNGs when exporting, creates
// the output file for palette and gif passes, and answers metric comparisons
// with a score that peaks when to-from equals Period, so the best loop is
// (1, 1+Period).
type StubMedia struct {
	Frames    int
	FrameRate int
	Period    int
}

func (m StubMedia) withDefaults() StubMedia {
	if m.Frames <= 0 {
		m.Frames = 30
	}
	if m.FrameRate <= 0 {
		m.FrameRate = 30
	}
	if m.Period <= 0 {
		m.Period = 12
	}
	return m
}

// Install writes the ffmpeg and ffprobe stubs into dir and returns their
// paths.
func (m StubMedia) Install(t testing.TB, dir string) (string, string) {
	t.Helper()
	m = m.withDefaults()
	ffmpegPath := filepath.Join(dir, "ffmpeg")
	ffprobePath := filepath.Join(dir, "ffprobe")
	WriteExecutable(t, ffmpegPath, fmt.Sprintf(ffmpegStub, m.Period, m.Frames))
	duration := float64(m.Frames) / float64(m.FrameRate)
	WriteExecutable(t, ffprobePath, fmt.Sprintf(ffprobeStub, m.Frames, m.FrameRate, m.Frames, duration, duration))
	return ffmpegPath, ffprobePath
}

const ffmpegStub = `#!/bin/sh
prev=""
last=""
lavfi=""
from=""
to=""
for arg in "$@"; do
	case "$prev" in
	-lavfi) lavfi="$arg" ;;
	-i) if [ -z "$from" ]; then from="$arg"; else to="$arg"; fi ;;
	esac
	prev="$arg"
	last="$arg"
done
if [ -n "$lavfi" ]; then
	a=$(basename "$from" .png)
	b=$(basename "$to" .png)
	d=$((b - a - %d))
	[ "$d" -lt 0 ] && d=$((0 - d))
	if [ "$lavfi" = "ssim" ]; then
		s=$((99 - d))
		[ "$s" -lt 10 ] && s=10
		echo "[Parsed_ssim_0 @ 0x1] SSIM Y:0.5 U:0.5 V:0.5 All:0.$s (10.0)" >&2
	else
		echo "[Parsed_psnr_0 @ 0x1] PSNR y:30.0 u:30.0 v:30.0 average:$((60 - d)).50 min:20.0 max:40.0" >&2
	fi
	exit 0
fi
case "$last" in
*%%d.png)
	dir=$(dirname "$last")
	i=1
	while [ "$i" -le %d ]; do
		: > "$dir/$i.png"
		echo "frame=$i"
		i=$((i + 1))
	done
	echo "progress=end"
	;;
*)
	: > "$last"
	echo "frame=1"
	echo "progress=end"
	;;
esac
exit 0
`

const ffprobeStub = `#!/bin/sh
for arg in "$@"; do
	if [ "$arg" = "-count_frames" ]; then
		echo "%d"
		exit 0
	fi
done
cat <<'JSON'
{"streams":[{"index":0,"codec_name":"h264","codec_type":"video","width":320,"height":240,"r_frame_rate":"%d/1","avg_frame_rate":"","nb_frames":"%d","duration":"%.3f"}],"format":{"filename":"in.mp4","nb_streams":1,"duration":"%.3f","size":"4096","format_name":"mov,mp4"}}
JSON
`
