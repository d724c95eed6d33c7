package wpfront

import "testing"

func TestPlaceholderSize(t *testing.T) {
	tests := map[string]int{
		"":      placeholderDefault,
		"x":     placeholderDefault,
		"0":     placeholderMin,
		"-5":    placeholderMin,
		"250":   250,
		"99999": placeholderMax,
	}
	for in, want := range tests {
		if got := placeholderSize(in); got != want {
			t.Errorf("placeholderSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestRenderPlaceholderDrawsLabel(t *testing.T) {
	img := renderPlaceholder(200, 100, "soap")
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}
	if got := img.RGBAAt(0, 0); got != placeholderBackground {
		t.Errorf("corner = %v, want background", got)
	}
	inked := false
	for y := 0; y < 100 && !inked; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y) == placeholderInk {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("label should be drawn")
	}
}

func TestRenderPlaceholderTinyImage(t *testing.T) {
	img := renderPlaceholder(placeholderMin, placeholderMin, "a very long label that cannot possibly fit here")
	if b := img.Bounds(); b.Dx() != placeholderMin || b.Dy() != placeholderMin {
		t.Fatalf("bounds = %v", b)
	}
}
