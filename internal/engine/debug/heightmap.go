package debug

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/nimbus/internal/engine/terrain"
)

type encoder func(io.Writer, image.Image) error

func encoderFor(format string) (encoder, error) {
	switch format {
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "pgm":
		return encodePGM, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
}

// encodePGM writes img as a binary 8-bit greyscale netpbm file.
func encodePGM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if err := bw.WriteByte(g.Y); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// HeightmapImage renders the grid as greyscale, lowest cell black and
// highest white. Image x follows grid column j, image y follows row i.
func HeightmapImage(grid *terrain.HeightGrid) *image.Gray {
	dim := grid.Dim()
	img := image.NewGray(image.Rect(0, 0, dim, dim))

	lo, hi := grid.MinElevation(), grid.MaxElevation()
	span := hi - lo
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var v float32
			if span > 0 {
				v = (grid.At(i, j) - lo) / span
			}
			img.SetGray(j, i, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

// ExportHeightmap writes the grid to path. The encoding follows the
// extension: .pgm, .png or .bmp.
func ExportHeightmap(grid *terrain.HeightGrid, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, err := encoderFor(format); err != nil {
		return fmt.Errorf("heightmap %s: %w", path, err)
	}
	return writeImage(path, format, HeightmapImage(grid))
}
