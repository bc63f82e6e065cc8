package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "lightlab")
	sc.now = fixedClock

	// Bottom row red, top row green, as glReadPixels returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 255, 0, 255, 0, 255, 0, 255,
	}

	path, err := sc.CaptureFromPixels(pixels, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lightlab_2024-03-01_12-30-00_001.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, color.NRGBAModel.Convert(color.RGBA{G: 255, A: 255}), color.NRGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.NRGBAModel.Convert(color.RGBA{R: 255, A: 255}), color.NRGBAModel.Convert(img.At(1, 1)))
}

func TestCaptureNumbersFiles(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot")
	sc.now = fixedClock
	pixels := make([]byte, 4)

	first, err := sc.CaptureFromPixels(pixels, 1, 1)
	require.NoError(t, err)
	second, err := sc.CaptureFromPixels(pixels, 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestCaptureSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot")
	_, err := sc.CaptureFromPixels(make([]byte, 10), 2, 2)
	assert.Error(t, err)
}
