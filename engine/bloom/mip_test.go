package bloom

import (
	"slices"
	"testing"
)

func TestMipSizesScenario(t *testing.T) {
	got := MipSizes(1920, 1080, 5)
	want := [][2]uint32{{960, 540}, {480, 270}, {240, 135}, {120, 67}, {60, 33}}
	if !slices.Equal(got, want) {
		t.Errorf("MipSizes(1920, 1080, 5) = %v, want %v", got, want)
	}
}

func TestMipSizesMonotonicShrink(t *testing.T) {
	tests := []struct {
		w, h, k int
	}{
		{1920, 1080, 5},
		{1280, 720, 8},
		{1001, 3, 6},
		{7, 5, 12},
		{1, 1, 3},
	}
	for _, tt := range tests {
		sizes := MipSizes(tt.w, tt.h, tt.k)
		if len(sizes) != tt.k {
			t.Fatalf("MipSizes(%d, %d, %d) returned %d levels", tt.w, tt.h, tt.k, len(sizes))
		}
		prevW, prevH := uint32(tt.w), uint32(tt.h)
		for i, s := range sizes {
			if s[0] != max(prevW/2, 1) || s[1] != max(prevH/2, 1) {
				t.Errorf("%dx%d level %d = %v, want floor half of %dx%d", tt.w, tt.h, i, s, prevW, prevH)
			}
			if s[0] == 0 || s[1] == 0 {
				t.Errorf("%dx%d level %d reached zero", tt.w, tt.h, i)
			}
			if s[0] > prevW || s[1] > prevH {
				t.Errorf("%dx%d level %d grew", tt.w, tt.h, i)
			}
			prevW, prevH = s[0], s[1]
		}
	}
}

func TestMipSizesInvalid(t *testing.T) {
	for _, args := range [][3]int{{0, 10, 3}, {10, 0, 3}, {10, 10, 0}, {-4, 10, 2}} {
		if got := MipSizes(args[0], args[1], args[2]); got != nil {
			t.Errorf("MipSizes%v = %v, want nil", args, got)
		}
	}
}
