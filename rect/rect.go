// Package rect implements axis-aligned integer rectangles and the
// geometry string formats used on the command line and in panel/profile
// configuration: `WxH+X+Y`, `WxH`, and the grid shorthand `CxR@WxH+X+Y`.
package rect

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is an axis-aligned rectangle with signed-integer position and
// unsigned-integer size.
type Rect struct {
	X, Y          int32
	Width, Height uint32
}

// Zero returns the rectangle with zero position and size.
func Zero() Rect {
	return Rect{}
}

// Min returns the rectangle's top-left corner.
func (r Rect) Min() (int32, int32) {
	return r.X, r.Y
}

// Max returns the rectangle's bottom-right corner.
func (r Rect) Max() (int32, int32) {
	return r.X + int32(r.Width), r.Y + int32(r.Height)
}

// Center returns the rectangle's center point, rounding toward the
// top-left on odd dimensions.
func (r Rect) Center() (int32, int32) {
	return r.X + int32(r.Width/2), r.Y + int32(r.Height/2)
}

// Contains reports whether (x, y) lies within the rectangle, inclusive
// of both edges.
func (r Rect) Contains(x, y int32) bool {
	maxX, maxY := r.Max()
	return x >= r.X && x <= maxX && y >= r.Y && y <= maxY
}

// Merge returns the smallest rectangle containing both r and other.
func (r Rect) Merge(other Rect) Rect {
	minX, minY := r.Min()
	oMinX, oMinY := other.Min()
	maxX, maxY := r.Max()
	oMaxX, oMaxY := other.Max()

	return FromMinMax(min32(minX, oMinX), min32(minY, oMinY), max32(maxX, oMaxX), max32(maxY, oMaxY))
}

// FromMinMax builds a rectangle from its min and max corners.
func FromMinMax(minX, minY, maxX, maxY int32) Rect {
	return Rect{
		X:      minX,
		Y:      minY,
		Width:  uint32(maxX - minX),
		Height: uint32(maxY - minY),
	}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// String formats the rectangle as `WxH` when at the origin, else
// `WxH+X+Y`.
func (r Rect) String() string {
	if r.X == 0 && r.Y == 0 {
		return fmt.Sprintf("%dx%d", r.Width, r.Height)
	}
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Parse parses a rectangle from the `WxH+X+Y` or `WxH` format.
func Parse(s string) (Rect, error) {
	size, pos, hasPos := strings.Cut(s, "+")

	width, height, ok := strings.Cut(size, "x")
	if !ok {
		return Rect{}, fmt.Errorf("rect %q: missing %q in size", s, "x")
	}

	w, err := strconv.ParseUint(width, 10, 32)
	if err != nil {
		return Rect{}, fmt.Errorf("rect %q: parsing width: %w", s, err)
	}
	h, err := strconv.ParseUint(height, 10, 32)
	if err != nil {
		return Rect{}, fmt.Errorf("rect %q: parsing height: %w", s, err)
	}

	var x, y int64
	if hasPos {
		xs, ys, ok := strings.Cut(pos, "+")
		if !ok {
			return Rect{}, fmt.Errorf("rect %q: missing %q in position", s, "+")
		}
		x, err = strconv.ParseInt(xs, 10, 32)
		if err != nil {
			return Rect{}, fmt.Errorf("rect %q: parsing x: %w", s, err)
		}
		y, err = strconv.ParseInt(ys, 10, 32)
		if err != nil {
			return Rect{}, fmt.Errorf("rect %q: parsing y: %w", s, err)
		}
	}

	return Rect{X: int32(x), Y: int32(y), Width: uint32(w), Height: uint32(h)}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so Rect decodes
// directly from TOML string values via BurntSushi/toml.
func (r *Rect) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Rect) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseGrid parses the `CxR@WxH+X+Y` grid shorthand, subdividing the
// base rectangle into cols*rows equal sub-rectangles, rounding toward
// zero so trailing columns/rows absorb any remainder pixels.
func ParseGrid(s string) ([]Rect, error) {
	gridPart, basePart, ok := strings.Cut(s, "@")
	if !ok {
		return nil, fmt.Errorf("grid %q: missing %q separating grid from base rect", s, "@")
	}

	colsStr, rowsStr, ok := strings.Cut(gridPart, "x")
	if !ok {
		return nil, fmt.Errorf("grid %q: missing %q in grid dimensions", s, "x")
	}
	cols, err := strconv.ParseUint(colsStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("grid %q: parsing columns: %w", s, err)
	}
	rows, err := strconv.ParseUint(rowsStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("grid %q: parsing rows: %w", s, err)
	}
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("grid %q: columns and rows must be non-zero", s)
	}

	base, err := Parse(basePart)
	if err != nil {
		return nil, fmt.Errorf("grid %q: parsing base rect: %w", s, err)
	}

	cellW := base.Width / uint32(cols)
	cellH := base.Height / uint32(rows)

	rects := make([]Rect, 0, cols*rows)
	for row := uint32(0); row < uint32(rows); row++ {
		for col := uint32(0); col < uint32(cols); col++ {
			w := cellW
			if col == uint32(cols)-1 {
				w = base.Width - cellW*(uint32(cols)-1)
			}
			h := cellH
			if row == uint32(rows)-1 {
				h = base.Height - cellH*(uint32(rows)-1)
			}
			rects = append(rects, Rect{
				X:      base.X + int32(col*cellW),
				Y:      base.Y + int32(row*cellH),
				Width:  w,
				Height: h,
			})
		}
	}
	return rects, nil
}
