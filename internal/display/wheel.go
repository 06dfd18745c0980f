package display

import "github.com/fcurrie/serpentine-led-golang/internal/types"

// Wheel maps a position on a 256-step colour wheel to a colour. The wheel
// runs red to green, green to blue, then blue back to red.
func Wheel(pos int) types.RGB {
	pos &= 255
	switch {
	case pos < 85:
		return rgb(pos*3, 255-pos*3, 0)
	case pos < 170:
		pos -= 85
		return rgb(255-pos*3, 0, pos*3)
	default:
		pos -= 170
		return rgb(0, pos*3, 255-pos*3)
	}
}

func rgb(r, g, b int) types.RGB {
	return types.RGB{R: clamp8(r), G: clamp8(g), B: clamp8(b)}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
