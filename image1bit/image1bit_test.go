package image1bit

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestBitRGBA(t *testing.T) {
	tests := []struct {
		name string
		bit  Bit
		want uint32
	}{
		{"off", Off, 0x0000},
		{"on", On, 0xFFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.bit.RGBA()
			if r != tt.want || g != tt.want || b != tt.want || a != 0xFFFF {
				t.Errorf("RGBA() = (%x, %x, %x, %x), want (%x, %x, %x, %x)",
					r, g, b, a, tt.want, tt.want, tt.want, uint32(0xFFFF))
			}
		})
	}
}

func TestBitModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Bit
	}{
		{"bit passthrough", On, On},
		{"black", color.Black, Off},
		{"white", color.White, On},
		{"dark gray", color.Gray{Y: 0x40}, Off},
		{"light gray", color.Gray{Y: 0xC0}, On},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BitModel.Convert(tt.input).(Bit); got != tt.want {
				t.Errorf("BitModel.Convert(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		wantPanic bool
	}{
		{"32x8", 32, 8, false},
		{"64x8", 64, 8, false},
		{"1x1", 1, 1, false},
		{"zero width panics", 0, 8, true},
		{"too wide panics", 65, 8, true},
		{"zero height panics", 32, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("panic = %v, want panic = %v", r != nil, tt.wantPanic)
				}
			}()

			w := NewWindow(tt.width, tt.height)
			if w.Width() != tt.width {
				t.Errorf("Width() = %d, want %d", w.Width(), tt.width)
			}
			if w.Height() != tt.height {
				t.Errorf("Height() = %d, want %d", w.Height(), tt.height)
			}
			if !w.IsEmpty() {
				t.Error("new window should be empty")
			}
		})
	}
}

func TestWindowColumnOrder(t *testing.T) {
	w := NewWindow(8, 1)
	w.SetPixel(0, 0, true)
	w.SetPixel(0, 6, true)
	w.SetPixel(0, 7, true)

	// Column 0 is the most significant bit.
	if got := w.Row(0); got != 0x83 {
		t.Errorf("Row(0) = 0x%02X, want 0x83", got)
	}

	w = NewWindow(32, 1)
	w.SetPixel(0, 0, true)
	if got := w.Row(0); got != 0x80000000 {
		t.Errorf("Row(0) = 0x%08X, want 0x80000000", got)
	}
}

func TestWindowSetPixelClears(t *testing.T) {
	w := NewWindow(32, 8)
	w.SetPixel(3, 10, true)
	if !w.Pixel(3, 10) {
		t.Fatal("Pixel(3, 10) = false after set")
	}
	w.SetPixel(3, 10, false)
	if w.Pixel(3, 10) {
		t.Error("Pixel(3, 10) = true after clear")
	}
}

func TestWindowClearIdempotent(t *testing.T) {
	w := NewWindow(32, 8)
	for r := 0; r < 8; r++ {
		w.SetRow(r, 0xDEADBEEF)
	}

	w.Clear()
	once := w.Copy()
	w.Clear()

	if !w.Equal(once) {
		t.Errorf("second Clear() changed the window:\n%s", w)
	}
	if !w.IsEmpty() {
		t.Errorf("window not empty after Clear():\n%s", w)
	}
}

func TestWindowShiftLeft(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		n    int
		want uint64
	}{
		{"by one", 0x0000000F, 1, 0x0000001E},
		{"drops leftmost", 0x80000001, 1, 0x00000002},
		{"by zero", 0x12345678, 0, 0x12345678},
		{"by width empties", 0xFFFFFFFF, 32, 0},
		{"past width empties", 0xFFFFFFFF, 40, 0},
		{"by eight", 0x00FF00FF, 8, 0xFF00FF00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(32, 2)
			w.SetRow(0, tt.in)
			w.SetRow(1, tt.in)
			w.ShiftLeft(tt.n)
			for r := 0; r < 2; r++ {
				if got := w.Row(r); got != tt.want {
					t.Errorf("Row(%d) = 0x%08X, want 0x%08X", r, got, tt.want)
				}
			}
		})
	}
}

func TestWindowShiftLeftFullWidth(t *testing.T) {
	w := NewWindow(64, 1)
	w.SetRow(0, ^uint64(0))
	w.ShiftLeft(4)
	if got := w.Row(0); got != 0xFFFFFFFFFFFFFFF0 {
		t.Errorf("Row(0) = 0x%016X, want 0xFFFFFFFFFFFFFFF0", got)
	}
}

func TestWindowSetRowMasks(t *testing.T) {
	w := NewWindow(8, 1)
	w.SetRow(0, 0x1FF)
	if got := w.Row(0); got != 0xFF {
		t.Errorf("Row(0) = 0x%X, want 0xFF", got)
	}
}

func TestWindowOutOfBounds(t *testing.T) {
	w := NewWindow(8, 2)

	w.SetPixel(-1, 0, true)
	w.SetPixel(0, 8, true)
	w.SetPixel(2, 0, true)
	if !w.IsEmpty() {
		t.Error("out of bounds SetPixel modified the window")
	}
	if w.Pixel(5, 5) {
		t.Error("out of bounds Pixel should be false")
	}
	if w.Row(9) != 0 {
		t.Error("out of bounds Row should be 0")
	}
}

func TestWindowDraw(t *testing.T) {
	w := NewWindow(8, 2)
	draw.Draw(w, image.Rect(2, 0, 4, 1), image.NewUniform(color.White), image.Point{}, draw.Src)

	if got := w.Row(0); got != 0x30 {
		t.Errorf("Row(0) = 0x%02X, want 0x30", got)
	}
	if got := w.Row(1); got != 0 {
		t.Errorf("Row(1) = 0x%02X, want 0", got)
	}
	if c := w.At(2, 0); c != On {
		t.Errorf("At(2, 0) = %v, want On", c)
	}
	if w.Bounds() != image.Rect(0, 0, 8, 2) {
		t.Errorf("Bounds() = %v", w.Bounds())
	}
	if w.ColorModel() != BitModel {
		t.Error("ColorModel() did not return BitModel")
	}
}

func TestWindowCopyIndependent(t *testing.T) {
	w := NewWindow(16, 2)
	w.SetPixel(1, 1, true)
	c := w.Copy()
	w.Clear()
	if !c.Pixel(1, 1) {
		t.Error("Copy shares storage with the original")
	}

	w.CopyFrom(c)
	if !w.Equal(c) {
		t.Error("CopyFrom did not copy content")
	}
}

func TestWindowString(t *testing.T) {
	w := NewWindow(4, 2)
	w.SetPixel(0, 0, true)
	w.SetPixel(1, 3, true)
	want := "#...\n...#\n"
	if got := w.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
