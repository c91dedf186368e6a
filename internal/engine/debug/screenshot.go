// Package debug writes diagnostic images: frame captures and heightmap
// exports.
package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotCapture saves presented frames to timestamped files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    string // png or bmp
	now       func() time.Time
}

// NewScreenshotCapture creates a capture handler writing PNG files.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    "png",
		now:       time.Now,
	}
}

// SetFormat selects the image encoding ("png" or "bmp").
func (sc *ScreenshotCapture) SetFormat(format string) error {
	if _, err := encoderFor(format); err != nil {
		return err
	}
	sc.format = format
	return nil
}

// CaptureFromPixels saves RGBA pixels read back from the GPU.
// pixels must hold width*height*4 bytes, bottom row first; the image is
// flipped so the file is top row first.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize // Flip Y
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}

	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves an existing image.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	filename := sc.GenerateFilename()
	if err := writeImage(filename, sc.format, img); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateFilename returns the path the next capture would be written to.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.%s", sc.prefix, timestamp, sc.format)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// writeImage creates parent directories and encodes img to path.
func writeImage(path, format string, img image.Image) error {
	encode, err := encoderFor(format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := encode(file, img); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return file.Close()
}
