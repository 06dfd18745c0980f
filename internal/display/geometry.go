package display

import "fmt"

// Geometry is the logical size of a serpentine matrix
type Geometry struct {
	Rows int
	Cols int
}

// Validate returns an error unless both dimensions are positive
func (g Geometry) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", g.Rows, g.Cols)
	}
	return nil
}

// Elements returns the number of physical elements in the matrix
func (g Geometry) Elements() int {
	return g.Rows * g.Cols
}

// FrameSize returns the byte length of one RGB frame
func (g Geometry) FrameSize() int {
	return g.Elements() * 3
}

// Index maps a logical pixel to its physical element. Even rows run left
// to right, odd rows run right to left.
func (g Geometry) Index(row, col int) int {
	if row%2 == 0 {
		return row*g.Cols + col
	}
	return row*g.Cols + (g.Cols - 1 - col)
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}
