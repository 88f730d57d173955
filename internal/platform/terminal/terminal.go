// Package terminal renders frames as a top-down character map with tcell and
// reads keyboard input from the same screen.
package terminal

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kodebolds/engine/internal/platform"
	"github.com/kodebolds/engine/internal/vmath"
)

// Open creates and initialises the process terminal screen.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}
	return screen, nil
}

// glyphs maps mesh file stems to the character drawn for them.
var glyphs = map[string]rune{
	"ship":      'A',
	"asteroid":  'o',
	"sphere":    '|',
	"laser_gun": '^',
	"quad100":   '*',
	"planet":    '.',
	"sun":       'O',
	"cube":      ' ',
}

func glyphFor(geometry string) rune {
	stem := strings.TrimSuffix(path.Base(geometry), path.Ext(geometry))
	if g, ok := glyphs[stem]; ok {
		return g
	}
	return '#'
}

// Renderer projects drawables onto the X/Z plane around the camera: world X
// runs left to right, world Z bottom to top.
type Renderer struct {
	screen tcell.Screen
	// Scale is world units per character cell.
	Scale     float32
	closeOnce sync.Once
}

func NewRenderer(screen tcell.Screen, scale float32) *Renderer {
	if scale <= 0 {
		scale = 4
	}
	return &Renderer{screen: screen, Scale: scale}
}

// Init ignores the requested size; the terminal decides.
func (r *Renderer) Init(_, _ int) error {
	r.screen.HideCursor()
	r.screen.Clear()
	return nil
}

func (r *Renderer) Draw(f *platform.Frame) error {
	r.screen.Clear()
	w, h := r.screen.Size()
	var centre vmath.Vector3
	if f.HasView {
		centre = f.View.Position
	}
	for _, d := range f.Drawables {
		g := glyphFor(d.Geometry)
		if g == ' ' || g == '.' {
			continue
		}
		x, y, ok := r.project(d.Position, centre, w, h)
		if !ok {
			continue
		}
		r.screen.SetContent(x, y, g, nil, styleFor(d.Colour))
	}
	for i, line := range f.Overlay {
		if i >= h {
			break
		}
		r.putString(0, i, line, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}
	r.screen.Show()
	return nil
}

func (r *Renderer) project(p, centre vmath.Vector3, w, h int) (int, int, bool) {
	x := w/2 + int((p.X-centre.X)/r.Scale)
	y := h/2 - int((p.Z-centre.Z)/r.Scale)
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

func (r *Renderer) putString(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func styleFor(c vmath.Vector4) tcell.Style {
	clamp := func(v float32) int32 {
		return int32(min(max(v, 0), 1) * 255)
	}
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(clamp(c.X), clamp(c.Y), clamp(c.Z)))
}

// Close restores the terminal. Safe to call more than once.
func (r *Renderer) Close() error {
	r.closeOnce.Do(r.screen.Fini)
	return nil
}
