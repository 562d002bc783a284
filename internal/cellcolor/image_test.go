package cellcolor

import (
	"image"
	"testing"
)

func fillPixel(img *image.NRGBA, x, y int, c Color) {
	i := img.PixOffset(x, y)
	img.Pix[i] = c[0]
	img.Pix[i+1] = c[1]
	img.Pix[i+2] = c[2]
	img.Pix[i+3] = 255
}

func TestDecodeImageAllBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	m := DecodeImage(img)

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if idx, ok := m.At(x, y); ok {
				t.Fatalf("pixel (%d,%d): got cell %d, want background", x, y, idx)
			}
		}
	}
	s := m.ComputeStats()
	if s.Background != 12 || s.Foreground != 0 || s.Unique != 0 {
		t.Errorf("stats = %+v, want all background", s)
	}
}

func TestDecodeImageUniformCell(t *testing.T) {
	// A frame filled with color (0,0,2) is cell index 1 everywhere.
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			fillPixel(img, x, y, Color{0, 0, 2})
		}
	}
	m := DecodeImage(img)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			idx, ok := m.At(x, y)
			if !ok || idx != 1 {
				t.Fatalf("pixel (%d,%d) = (%d,%v), want cell 1", x, y, idx, ok)
			}
		}
	}
}

func TestDecodeImageMixed(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	fillPixel(img, 1, 0, Color{0, 0, 2})   // cell 1
	fillPixel(img, 3, 0, Color{1, 0, 0})   // cell 65535
	m := DecodeImage(img)

	for x, want := range []struct {
		idx int
		ok  bool
	}{{0, false}, {1, true}, {0, false}, {65535, true}} {
		idx, ok := m.At(x, 0)
		if ok != want.ok || (ok && idx != want.idx) {
			t.Errorf("pixel (%d,0) = (%d,%v), want (%d,%v)", x, idx, ok, want.idx, want.ok)
		}
		if ok && idx < 0 {
			t.Errorf("pixel (%d,0) decoded to negative index %d", x, idx)
		}
	}
}

func TestDecodeImageSubimage(t *testing.T) {
	// Decode must respect non-zero bounds of a cropped frame.
	full := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 2; y < 4; y++ {
		for x := 2; x < 4; x++ {
			fillPixel(full, x, y, Color{0, 0, 3})
		}
	}
	sub := full.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	m := DecodeImage(sub)
	if m.Width != 2 || m.Height != 2 {
		t.Fatalf("decoded size %dx%d, want 2x2", m.Width, m.Height)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if idx, ok := m.At(x, y); !ok || idx != 2 {
				t.Errorf("pixel (%d,%d) = (%d,%v), want cell 2", x, y, idx, ok)
			}
		}
	}
}

func TestEncodeNRGBARoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	fillPixel(img, 0, 0, Color{0, 0, 1})
	fillPixel(img, 2, 1, Color{2, 200, 17})

	m := DecodeImage(img)
	back := DecodeImage(m.EncodeNRGBA())

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			i1, ok1 := m.At(x, y)
			i2, ok2 := back.At(x, y)
			if i1 != i2 || ok1 != ok2 {
				t.Errorf("pixel (%d,%d): (%d,%v) != (%d,%v)", x, y, i1, ok1, i2, ok2)
			}
		}
	}
}

func TestComputeStats(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	fillPixel(img, 0, 0, Color{0, 0, 5}) // cell 4
	fillPixel(img, 1, 0, Color{0, 0, 5}) // cell 4
	fillPixel(img, 2, 0, Color{0, 0, 9}) // cell 8
	m := DecodeImage(img)

	s := m.ComputeStats()
	if s.Background != 1 || s.Foreground != 3 || s.Unique != 2 {
		t.Errorf("stats = %+v", s)
	}
	if s.MinIndex != 4 || s.MaxIndex != 8 {
		t.Errorf("min/max = %d/%d, want 4/8", s.MinIndex, s.MaxIndex)
	}
}
