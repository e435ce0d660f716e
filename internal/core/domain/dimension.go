package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// Dimension is the pixel size of an asset. A Dimension is only ever produced by a successful
// probe, so both fields are strictly positive.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewDimension validates and returns a Dimension.
func NewDimension(width, height int) (Dimension, error) {
	if width <= 0 || height <= 0 {
		return Dimension{}, zerr.Wrap(ErrInvalidDimension, fmt.Sprintf("%dx%d", width, height))
	}
	return Dimension{Width: width, Height: height}, nil
}

// Valid reports whether both sides are positive.
func (d Dimension) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// AspectRatio returns the CSS declaration for this dimension, e.g. "aspect-ratio: 200 / 150;".
func (d Dimension) AspectRatio() string {
	return fmt.Sprintf("aspect-ratio: %d / %d;", d.Width, d.Height)
}

// String implements fmt.Stringer.
func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// DimensionMap maps a canonical asset key to its dimension.
type DimensionMap map[string]Dimension
