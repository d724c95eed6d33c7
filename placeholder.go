package wpfront

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderDefault = 400
	placeholderMin     = 16
	placeholderMax     = 1600
	placeholderLabel   = 40 // runes
)

var (
	placeholderBackground = color.RGBA{R: 0xec, G: 0xe6, B: 0xdc, A: 0xff}
	placeholderInk        = color.RGBA{R: 0x8a, G: 0x80, B: 0x74, A: 0xff}
)

// placeholderSize parses a requested dimension, clamping it to the allowed range.
func placeholderSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return placeholderDefault
	}
	return min(max(n, placeholderMin), placeholderMax)
}

// renderPlaceholder draws a flat image of w x h with label centered on it.
// The label is drawn once in the fixed bitmap font and then scaled to fit.
func renderPlaceholder(w, h int, label string) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("%d x %d", w, h)
	}
	if r := []rune(label); len(r) > placeholderLabel {
		label = string(r[:placeholderLabel])
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	d := &font.Drawer{Face: face}
	textW := d.MeasureString(label).Ceil()
	textH := metrics.Height.Ceil()
	if textW <= 0 || textH <= 0 {
		return dst
	}

	src := image.NewRGBA(image.Rect(0, 0, textW, textH))
	d.Dst = src
	d.Src = image.NewUniform(placeholderInk)
	d.Dot = fixed.P(0, metrics.Ascent.Ceil())
	d.DrawString(label)

	scale := min(float64(w)*0.8/float64(textW), float64(h)*0.2/float64(textH))
	sw := max(1, int(float64(textW)*scale))
	sh := max(1, int(float64(textH)*scale))
	x := (w - sw) / 2
	y := (h - sh) / 2
	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+sw, y+sh), src, src.Bounds(), draw.Over, nil)
	return dst
}

func handlePlaceholder(c echo.Context) error {
	w := placeholderSize(c.QueryParam("width"))
	h := placeholderSize(c.QueryParam("height"))
	img := renderPlaceholder(w, h, c.QueryParam("query"))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode placeholder: %w", err)
	}
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}
