// Package viewport maps zoom and pan state onto a dataset's year extent,
// producing the visible time window and an adaptive tick schedule.
//
// The transform is stateless: it holds the full domain (dataset year
// extent padded by one year on each side) and the pixel width of the
// drawing surface, and derives everything else from a State on demand.
// Zoom is a magnification factor clamped to [MinZoom, MaxZoom]; pan is a
// horizontal offset in pixels. The visible window always stays inside
// the full domain, clamped by shifting so its width never changes.
package viewport

import (
	"fmt"
	"math"
	"strconv"
)

// Zoom bounds. Values outside are clamped, never rejected.
const (
	MinZoom = 0.5
	MaxZoom = 10.0
)

// Zoom thresholds at which the tick schedule switches granularity.
const (
	quarterZoom = 1.5
	monthZoom   = 4.5
)

// State is the user-controlled part of the viewport: a zoom factor and a
// pan offset in pixels. Both reset together.
type State struct {
	Zoom float64 `json:"zoom"`
	Pan  float64 `json:"pan"`
}

// DefaultState returns the reset viewport: unit zoom, no pan.
func DefaultState() State {
	return State{Zoom: 1, Pan: 0}
}

// Clamped returns the state with zoom forced into [MinZoom, MaxZoom].
// Pan is unbounded; window clamping absorbs excess.
func (s State) Clamped() State {
	s.Zoom = ClampZoom(s.Zoom)
	return s
}

// ClampZoom forces a zoom factor into [MinZoom, MaxZoom]. Values that
// are not comparable (NaN) clamp to MinZoom.
func ClampZoom(k float64) float64 {
	if !(k >= MinZoom) {
		return MinZoom
	}
	if k > MaxZoom {
		return MaxZoom
	}
	return k
}

// Window is a fractional-year interval.
type Window struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Width returns the window's extent in years.
func (w Window) Width() float64 {
	return w.End - w.Start
}

// Contains reports whether v lies inside the window, bounds included.
func (w Window) Contains(v float64) bool {
	return v >= w.Start && v <= w.End
}

// Transform derives visible windows and pixel coordinates for one
// dataset extent and one drawing surface width.
type Transform struct {
	Domain     Window
	PixelWidth float64
}

// NewTransform builds a transform for a dataset spanning minYear to
// maxYear, padding the domain one year on each side.
func NewTransform(minYear, maxYear int, pixelWidth float64) Transform {
	return Transform{
		Domain:     Window{Start: float64(minYear) - 1, End: float64(maxYear) + 1},
		PixelWidth: pixelWidth,
	}
}

// Visible computes the window shown under s.
//
// The window is centered on the domain midpoint shifted by the pan
// offset (converted from pixels to years at the full-domain scale), with
// width domain/zoom. A window at least as wide as the domain collapses
// to the domain exactly; otherwise an overflowing window is translated
// back inside without changing its width.
func (t Transform) Visible(s State) Window {
	width := t.Domain.Width()
	if width <= 0 {
		return t.Domain
	}

	k := ClampZoom(s.Zoom)
	half := width / (2 * k)
	center := t.Domain.Start + width/2
	if t.PixelWidth > 0 {
		center -= s.Pan * width / t.PixelWidth
	}

	w := Window{Start: center - half, End: center + half}
	if w.Width() >= width {
		return t.Domain
	}
	if w.Start < t.Domain.Start {
		shift := t.Domain.Start - w.Start
		w.Start += shift
		w.End += shift
	} else if w.End > t.Domain.End {
		shift := w.End - t.Domain.End
		w.Start -= shift
		w.End -= shift
	}
	return w
}

// X maps a fractional year to a pixel coordinate within the visible
// window w. Values outside w map outside [0, PixelWidth].
func (t Transform) X(w Window, fractionalYear float64) float64 {
	width := w.Width()
	if width <= 0 {
		return 0
	}
	return (fractionalYear - w.Start) / width * t.PixelWidth
}

// Tick is one axis mark: its fractional-year position and display label.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Ticks produces the axis marks for window w at zoom k. Granularity
// adapts to zoom: plain years below 1.5, quarters up to 4.5, months
// beyond. Ticks outside w are omitted.
func Ticks(w Window, zoom float64) []Tick {
	k := ClampZoom(zoom)
	subdiv := 1
	switch {
	case k >= monthZoom:
		subdiv = 12
	case k >= quarterZoom:
		subdiv = 4
	}

	var ticks []Tick
	first := int(math.Floor(w.Start))
	last := int(math.Ceil(w.End))
	for year := first; year <= last; year++ {
		for sub := 0; sub < subdiv; sub++ {
			v := float64(year) + float64(sub)/float64(subdiv)
			if !w.Contains(v) {
				continue
			}
			ticks = append(ticks, Tick{Value: v, Label: tickLabel(year, sub, subdiv)})
		}
	}
	return ticks
}

func tickLabel(year, sub, subdiv int) string {
	switch subdiv {
	case 4:
		return fmt.Sprintf("Q%d/%d", sub+1, year)
	case 12:
		return fmt.Sprintf("%02d/%d", sub+1, year)
	default:
		return strconv.Itoa(year)
	}
}
