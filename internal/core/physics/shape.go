package physics

// DefaultHalfWidth is the half-width of a collision square created without an explicit size.
const DefaultHalfWidth = 0.3

// Square is an axis-aligned square footprint in the horizontal plane,
// centred on its body's transform.
type Square struct {
	HalfWidth float64
}

// NewSquare returns a footprint of the given half-width. Non-positive widths use DefaultHalfWidth.
func NewSquare(halfWidth float64) *Square {
	if halfWidth <= 0 {
		halfWidth = DefaultHalfWidth
	}
	return &Square{HalfWidth: halfWidth}
}
