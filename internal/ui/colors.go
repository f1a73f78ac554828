package ui

import (
	"fmt"

	"mindnoscape/canvas-app/internal/palette"
)

type Color string

const (
	ColorDefault     Color = "\033[0m"
	ColorDarkGray    Color = "\033[38;2;100;100;100m"
	ColorGray        Color = "\033[38;2;150;150;150m"
	ColorWhite       Color = "\033[38;2;255;255;255m"
	ColorBrightWhite Color = "\033[38;2;255;255;255;1m"

	ColorLightRed Color = "\033[38;2;255;150;150m"
	ColorRed      Color = "\033[38;2;255;0;0m"

	ColorLightGreen Color = "\033[38;2;150;255;150m"
	ColorGreen      Color = "\033[38;2;0;255;0m"

	ColorLightYellow Color = "\033[38;2;255;255;150m"
	ColorYellow      Color = "\033[38;2;255;255;0m"

	ColorLightBlue Color = "\033[38;2;150;150;255m"

	ColorBrown Color = "\033[38;2;165;42;42m"

	ColorLightPurple Color = "\033[38;2;200;150;255m"

	ColorLightOrange Color = "\033[38;2;255;200;150m"
	ColorOrange      Color = "\033[38;2;255;165;0m"
)

// ColorFor returns the 24-bit terminal color of a node color string. Unknown
// colors print in the default color.
func ColorFor(name string) Color {
	c, err := palette.Parse(name)
	if err != nil {
		return ColorDefault
	}
	return Color(fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B))
}
