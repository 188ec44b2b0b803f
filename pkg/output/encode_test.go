package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(80 * x), G: uint8(120 * y), B: 200, A: 255})
		}
	}
	return img
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"render.png", FormatPNG, false},
		{"out/render.PNG", FormatPNG, false},
		{"render.bmp", FormatBMP, false},
		{"render.tif", FormatTIFF, false},
		{"render.tiff", FormatTIFF, false},
		{"render.jpg", "", true},
		{"render", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestEncode_DecodesToSamePixels(t *testing.T) {
	src := testImage()
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatBMP:  func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) },
		FormatTIFF: func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) },
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			decoded, err := decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if decoded.Bounds() != src.Bounds() {
				t.Fatalf("Expected bounds %v, got %v", src.Bounds(), decoded.Bounds())
			}
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					want := src.RGBAAt(x, y)
					r, g, b, _ := decoded.At(x, y).RGBA()
					if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
						t.Errorf("Pixel (%d,%d): expected %v, got (%d,%d,%d)", x, y, want, r>>8, g>>8, b>>8)
					}
				}
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, src, Format("gif")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSave_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "render.png")
	if err := Save(path, testImage()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	defer file.Close()

	if _, err := png.Decode(file); err != nil {
		t.Errorf("Expected a valid PNG, got %v", err)
	}

	if err := Save(filepath.Join(t.TempDir(), "render.xyz"), testImage()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
