package core

// Color is a foreground color for a screen cell.
// Values map to ANSI 256-color codes in the platform renderer.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Colors used by the tutor for the two operands and carried blocks.
const (
	ColorFirst  = ColorBrightCyan
	ColorSecond = ColorBrightMagenta
	ColorCarry  = ColorBrightYellow
	ColorHint   = ColorGray
	ColorGood   = ColorBrightGreen
	ColorBad    = ColorBrightRed
)
