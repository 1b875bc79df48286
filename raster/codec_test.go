package raster

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/montage/layout"
)

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"a.jpg": FormatJPEG, "a.JPG": FormatJPEG, "b/c.jpeg": FormatJPEG, "x.JPEG": FormatJPEG,
		"out.png": FormatPNG, "OUT.PNG": FormatPNG,
	}
	for name, want := range cases {
		got, err := FormatFor(name)
		if err != nil || got != want {
			t.Fatalf("FormatFor(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	for _, name := range []string{"a.gif", "a.Jpg", "noext", "a.png.txt"} {
		if _, err := FormatFor(name); !errors.Is(err, layout.ErrUnsupportedOutputFormat) {
			t.Fatalf("%q 应返回 ErrUnsupportedOutputFormat，实际 %v", name, err)
		}
	}
}

func TestWriteFileAndLoad(t *testing.T) {
	dir := t.TempDir()
	doc := New(8, 6, 300, layout.Color{R: 0x20, G: 0x40, B: 0x60, A: 0xff})
	for _, name := range []string{"out.png", "sub/out.jpg"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(path, doc, 90); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		img, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
			t.Fatalf("%s 尺寸错误: %v", name, b)
		}
	}
	// PNG 无损
	img, _ := Load(filepath.Join(dir, "out.png"))
	r, g, b, a := img.At(3, 3).RGBA()
	if r>>8 != 0x20 || g>>8 != 0x40 || b>>8 != 0x60 || a>>8 != 0xff {
		t.Fatalf("PNG 像素不一致: %d %d %d %d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, layout.ErrMissingFile) {
		t.Fatalf("期望 ErrMissingFile，实际 %v", err)
	}
	gif := filepath.Join(dir, "x.gif")
	if err := os.WriteFile(gif, []byte("GIF89a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(gif); !errors.Is(err, layout.ErrUnsupportedImageFormat) {
		t.Fatalf("期望 ErrUnsupportedImageFormat，实际 %v", err)
	}
	bad := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(bad, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, layout.ErrUnsupportedImageFormat) {
		t.Fatalf("损坏的文件期望 ErrUnsupportedImageFormat，实际 %v", err)
	}
}

func TestEncodeJPEGQuality(t *testing.T) {
	doc := New(32, 32, 300, layout.White)
	var low, high bytes.Buffer
	if err := Encode(&low, doc, FormatJPEG, 10); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&high, doc, FormatJPEG, DefaultJPEGQuality); err != nil {
		t.Fatal(err)
	}
	if low.Len() == 0 || high.Len() == 0 {
		t.Fatalf("编码结果为空")
	}
	if err := Encode(&low, doc, Format(0), 100); !errors.Is(err, layout.ErrUnsupportedOutputFormat) {
		t.Fatalf("未知格式期望 ErrUnsupportedOutputFormat，实际 %v", err)
	}
}
