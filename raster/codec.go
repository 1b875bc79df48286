package raster

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/montage/layout"
)

// Format is an image container understood by the codec.
type Format int

const (
	FormatJPEG Format = iota + 1
	FormatPNG
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 100

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return "unknown"
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/jpeg"
}

// formatOf maps a file extension to a format; only the spellings used by existing scripts are accepted.
func formatOf(name string) (Format, bool) {
	switch strings.TrimPrefix(filepath.Ext(name), ".") {
	case "jpg", "jpeg", "JPG", "JPEG":
		return FormatJPEG, true
	case "png", "PNG":
		return FormatPNG, true
	default:
		return 0, false
	}
}

// FormatFor picks the output format from the file name extension.
func FormatFor(name string) (Format, error) {
	f, ok := formatOf(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s（仅支持 JPEG 与 PNG）", layout.ErrUnsupportedOutputFormat, name)
	}
	return f, nil
}

// Load decodes a JPEG or PNG file chosen by its extension.
func Load(path string) (image.Image, error) {
	format, ok := formatOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", layout.ErrUnsupportedImageFormat, path)
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", layout.ErrMissingFile, path)
		}
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	defer file.Close()
	return Decode(file, format)
}

// Decode reads an image of the given format.
func Decode(r io.Reader, format Format) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatPNG:
		img, err = png.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", layout.ErrUnsupportedImageFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: 解码失败: %v", layout.ErrUnsupportedImageFormat, err)
	}
	return img, nil
}

// Encode writes the document in the given format. quality only applies to JPEG (0-100).
func Encode(w io.Writer, doc *Document, format Format, quality int) error {
	switch format {
	case FormatJPEG:
		if quality < 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, doc.Image(), &jpeg.Options{Quality: quality})
	case FormatPNG:
		return png.Encode(w, doc.Image())
	default:
		return fmt.Errorf("%w: %s", layout.ErrUnsupportedOutputFormat, format)
	}
}

// WriteFile encodes the document to path, choosing the format from its extension.
func WriteFile(path string, doc *Document, quality int) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件 %s 失败: %w", path, err)
	}
	bw := bufio.NewWriter(file)
	if err := Encode(bw, doc, format, quality); err != nil {
		file.Close()
		return fmt.Errorf("编码 %s 失败: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
