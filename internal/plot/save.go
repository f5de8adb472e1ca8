package plot

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
	ImageSVG  ImageFormat = "svg"
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
	ImageSVG:  {},
}

// ParseImageFormat validates a user supplied format name.
func ParseImageFormat(s string) (ImageFormat, error) {
	f := ImageFormat(strings.ToLower(s))
	if _, ok := validImageFormats[f]; !ok {
		return "", fmt.Errorf("invalid image format: %s", s)
	}
	return f, nil
}

// Vector reports whether the format is written from the chart description
// rather than from a raster image.
func (f ImageFormat) Vector() bool {
	return f == ImageSVG
}

// FileName returns "<basename>_<suffix>.<format>".
func FileName(basename, suffix string, format ImageFormat) string {
	return fmt.Sprintf("%s_%s.%s", basename, suffix, format)
}

// SaveBarChart draws the bar chart and writes it once per format, named
// after basename and info.Suffix. The raster image is drawn only when a
// raster format is requested.
func (r *Renderer) SaveBarChart(basename string, info Info, data Series, formats ...ImageFormat) ([]string, error) {
	if len(formats) == 0 {
		formats = []ImageFormat{ImagePNG}
	}

	var (
		img     image.Image
		written []string
	)
	for _, format := range formats {
		path := FileName(basename, info.Suffix, format)

		if format.Vector() {
			err := writeFile(path, func(w io.Writer) error {
				return r.BarChartSVG(w, info, data)
			})
			if err != nil {
				return written, fmt.Errorf("saving %s: %w", path, err)
			}
			written = append(written, path)
			continue
		}

		if img == nil {
			rgba, err := r.BarChart(info, data)
			if err != nil {
				return written, fmt.Errorf("drawing chart: %w", err)
			}
			img = rgba
		}
		if err := saveImage(path, img, format); err != nil {
			return written, fmt.Errorf("saving %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func saveImage(path string, img image.Image, format ImageFormat) error {
	switch format {
	case ImagePNG:
		return writeFile(path, func(w io.Writer) error {
			return png.Encode(w, img)
		})

	case ImageJPEG:
		return writeFile(path, func(w io.Writer) error {
			return jpeg.Encode(w, img, &jpeg.Options{
				Quality: 98,
			})
		})

	default:
		return fmt.Errorf("cannot encode %s from a raster image", format)
	}
}

func writeFile(path string, fn func(w io.Writer) error) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return fn(out)
}
