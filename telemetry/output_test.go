package telemetry

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/renderer"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	require.NoError(t, err)
	assert.Nil(t, om)

	// Nil manager methods are no-ops
	assert.NoError(t, om.WriteTelemetry(WindowStats{}))
	assert.NoError(t, om.WritePerf(PerfStats{}, 0))
	assert.NoError(t, om.WriteConfig(config.Default()))
	assert.NoError(t, om.WriteSnapshot("x.png", renderer.NewRaster(1, 1)))
	assert.Equal(t, "", om.Dir())
	assert.NoError(t, om.Close())
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	require.NoError(t, err)

	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndTick: 300, Emotion: "joy", Frames: 300}))
	require.NoError(t, om.WriteTelemetry(WindowStats{WindowEndTick: 600, Emotion: "sadness", Frames: 300}))
	require.NoError(t, om.WritePerf(PerfStats{AvgTickDuration: 2 * time.Millisecond}, 300))
	require.NoError(t, om.WriteConfig(config.Default()))
	require.NoError(t, om.Close())

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3, "one header and two records")
	assert.True(t, strings.HasPrefix(lines[0], "window_end,sim_time,emotion"))
	assert.NotContains(t, lines[0], "WindowStartTick")
	assert.Contains(t, lines[2], "sadness")

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(perf), "avg_tick_us")
	assert.Contains(t, string(perf), "300,2000")

	_, err = config.Load(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestOutputManagerSnapshot(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	require.NoError(t, err)
	defer om.Close()

	require.NoError(t, om.WriteSnapshot("frame.png", renderer.NewRaster(8, 6)))

	f, err := os.Open(filepath.Join(dir, "frame.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}
