package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-rt/common"
)

func writePNG(t *testing.T, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "sky.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoadDecodesAndCaches(t *testing.T) {
	path := writePNG(t, 4, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	l := NewLoader(BackendTypeImage)

	tex, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Width != 4 || tex.Height != 2 || len(tex.Pixels) != 4*2*4 {
		t.Fatalf("got %dx%d with %d bytes", tex.Width, tex.Height, len(tex.Pixels))
	}
	if got := tex.Pixels[:4]; !bytes.Equal(got, []byte{10, 20, 30, 255}) {
		t.Errorf("first pixel = %v", got)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := l.Load(path); err != nil {
		t.Errorf("cached Load after removal: %v", err)
	}
}

func TestLoadDownscalesToMaxDimension(t *testing.T) {
	path := writePNG(t, 64, 32, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	l := NewLoader(BackendTypeImage, WithMaxDimension(16))

	tex, err := l.Skybox(path)
	if err != nil {
		t.Fatalf("Skybox: %v", err)
	}
	if tex.Width != 16 || tex.Height != 8 {
		t.Fatalf("got %dx%d, want 16x8", tex.Width, tex.Height)
	}
	mid := (4*16 + 8) * 4
	want := []byte{200, 100, 50, 255}
	for i, got := range tex.Pixels[mid : mid+4] {
		if d := int(got) - int(want[i]); d < -1 || d > 1 {
			t.Errorf("resampled channel %d = %d, want %d", i, got, want[i])
		}
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(BackendTypeImage)
	if _, err := l.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load(missing) succeeded")
	}
	if _, err := l.LoadReader("junk", strings.NewReader("not an image")); err == nil {
		t.Error("LoadReader(junk) succeeded")
	}
	if _, ok := l.Get("junk"); ok {
		t.Error("failed decode was cached")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		limit        uint32
		wantW, wantH int
	}{
		{name: "inside", w: 100, h: 50, limit: 100, wantW: 100, wantH: 50},
		{name: "wide", w: 400, h: 200, limit: 100, wantW: 100, wantH: 50},
		{name: "tall", w: 200, h: 400, limit: 100, wantW: 50, wantH: 100},
		{name: "thin never zero", w: 1000, h: 1, limit: 10, wantW: 10, wantH: 1},
		{name: "no limit", w: 9000, h: 10, limit: 0, wantW: 9000, wantH: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitWithin(tt.w, tt.h, tt.limit)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("fitWithin = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestProceduralSky(t *testing.T) {
	l := NewLoader(BackendTypeImage, WithProceduralSkySize(8, 4))
	tex, err := l.Skybox("")
	if err != nil {
		t.Fatalf("Skybox(\"\"): %v", err)
	}
	if tex.Width != 8 || tex.Height != 4 {
		t.Fatalf("got %dx%d, want 8x4", tex.Width, tex.Height)
	}
	top := tex.Pixels[0:4]
	bottom := tex.Pixels[len(tex.Pixels)-4:]
	if top[2] != 255 || top[0] >= bottom[0] {
		t.Errorf("top row %v should be blue and darker in red than bottom row %v", top, bottom)
	}
	if _, ok := l.Get(ProceduralSkyKey); !ok {
		t.Error("procedural sky not cached")
	}
}

func TestWithTextureSeedsCache(t *testing.T) {
	seed := common.TextureStagingData{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1}
	l := NewLoader(BackendTypeImage, WithTexture("sky.png", seed))
	tex, err := l.Load("sky.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(tex.Pixels, seed.Pixels) {
		t.Errorf("Load returned %v, want seeded pixels", tex.Pixels)
	}
}

func TestEncodeSRGB(t *testing.T) {
	tests := []struct {
		in   float32
		want byte
	}{
		{0, 0},
		{1, 255},
		{2, 255},
		{0.5, 188},
	}
	for _, tt := range tests {
		if got := encodeSRGB(tt.in); got != tt.want {
			t.Errorf("encodeSRGB(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
