// Package strip rasterizes odometer slot rows into image frames.
//
// Each numeric slot is drawn as a window onto a vertical strip of digit
// glyphs. The slot's scroll offset selects the visible part of the strip,
// so mid-transition frames show two digits sliding through the cell at
// exactly the positions the engine reports. Non-numeric slots render their
// character statically.
package strip

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/odometer/pkg/odometer"
)

// Geometry is the pixel extent of one slot cell.
type Geometry struct {
	SlotWidth  int
	SlotHeight int
}

// Renderer draws slot rows onto a fixed-size canvas with a 7x13 bitmap
// face. The canvas holds a fixed number of cell columns so every frame of
// an animation has identical bounds even when the row length changes; rows
// shorter than the canvas are right aligned, the way a mechanical counter
// grows leftward.
type Renderer struct {
	geom    Geometry
	cells   int
	face    font.Face
	palette color.Palette
}

// NewRenderer creates a renderer for the given cell geometry and column
// count. Slot offsets are read as pixels, so engines driving the slots
// must use the same height as geom.SlotHeight.
func NewRenderer(geom Geometry, cells int) (*Renderer, error) {
	if geom.SlotWidth <= 0 || geom.SlotHeight <= 0 {
		return nil, fmt.Errorf("strip: cell geometry must be positive (got %dx%d)", geom.SlotWidth, geom.SlotHeight)
	}
	if cells < 1 {
		return nil, fmt.Errorf("strip: need at least one cell column (got %d)", cells)
	}
	return &Renderer{
		geom:    geom,
		cells:   cells,
		face:    basicfont.Face7x13,
		palette: color.Palette{color.White, color.Black},
	}, nil
}

// Bounds returns the canvas rectangle shared by all frames.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.cells*r.geom.SlotWidth, r.geom.SlotHeight)
}

// Frame rasterizes the current state of a slot row. Rows wider than the
// canvas are clipped on the left.
func (r *Renderer) Frame(slots []*odometer.Slot) *image.Paletted {
	img := image.NewPaletted(r.Bounds(), r.palette)
	x0 := (r.cells - len(slots)) * r.geom.SlotWidth
	for i, s := range slots {
		r.drawSlot(img, x0+i*r.geom.SlotWidth, s)
	}
	return img
}

func (r *Renderer) drawSlot(img *image.Paletted, x int, s *odometer.Slot) {
	if !s.IsNumeric() {
		r.drawGlyph(img, x, 0, s.Char())
		return
	}

	h := s.Height()
	if h <= 0 {
		return
	}

	// Two strip bands can be visible at once while a roll is in flight;
	// anything drawn past the cell is clipped by the canvas bounds.
	first := int(math.Floor(s.Offset() / h))
	for band := first; band <= first+1; band++ {
		y := float64(band)*h - s.Offset()
		r.drawGlyph(img, x, int(math.Round(y)), rune('0'+band%10))
	}
}

// drawGlyph centers one character in the cell whose top-left corner is
// (x, y). Vertical overflow lands outside the single-row canvas and is
// clipped, which is what windows onto the digit strip rely on.
func (r *Renderer) drawGlyph(img *image.Paletted, x, y int, ch rune) {
	metrics := r.face.Metrics()
	glyphW := font.MeasureString(r.face, string(ch)).Ceil()
	glyphH := metrics.Height.Ceil()

	d := font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: r.face,
		Dot: fixed.P(
			x+(r.geom.SlotWidth-glyphW)/2,
			y+(r.geom.SlotHeight-glyphH)/2+metrics.Ascent.Ceil(),
		),
	}
	d.DrawString(string(ch))
}

// Animation accumulates frames for an animated GIF.
type Animation struct {
	// DelayCS is the per-frame delay in hundredths of a second, the
	// GIF wire unit. Values below 1 are clamped to 1.
	DelayCS int

	frames []*image.Paletted
}

// Append adds one frame.
func (a *Animation) Append(frame *image.Paletted) {
	a.frames = append(a.frames, frame)
}

// Len returns the number of accumulated frames.
func (a *Animation) Len() int {
	return len(a.frames)
}

// EncodeGIF writes the accumulated frames as an animated GIF that loops
// forever.
func (a *Animation) EncodeGIF(w io.Writer) error {
	if len(a.frames) == 0 {
		return fmt.Errorf("strip: no frames to encode")
	}

	delay := a.DelayCS
	if delay < 1 {
		delay = 1
	}

	g := &gif.GIF{}
	for _, frame := range a.frames {
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
	}
	return gif.EncodeAll(w, g)
}
