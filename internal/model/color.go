package model

import "fmt"

// Color identifies one of the four seats' piece colors.
// Turn order is fixed: yellow -> blue -> red -> green.
type Color int

const (
	Yellow Color = iota
	Blue
	Red
	Green
)

// ColorCount is the number of colors on the board
const ColorCount = 4

var colorNames = [ColorCount]string{"yellow", "blue", "red", "green"}

// String returns the lowercase color name
func (c Color) String() string {
	if c < 0 || int(c) >= ColorCount {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

// Valid reports whether c is one of the four board colors
func (c Color) Valid() bool {
	return c >= 0 && int(c) < ColorCount
}

// Next returns the color that plays after c in the fixed turn order
func (c Color) Next() Color {
	return Color((int(c) + 1) % ColorCount)
}

// Partner returns the team partner color (opposite seat in team mode)
func (c Color) Partner() Color {
	return Color((int(c) + 2) % ColorCount)
}

// ParseColor converts a color name to a Color
func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if name == s {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// MarshalText encodes the color as its name, so JSON values and map keys
// are human-readable
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText decodes a color name
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
