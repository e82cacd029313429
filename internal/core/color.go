package core

// Color is a foreground colour for a screen cell.
// The platform layer maps each value to a terminal colour.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
)
