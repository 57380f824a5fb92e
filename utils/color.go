package utils

// Embed colors.
const (
	ColorSuccess = 0x00ff00
	ColorWarning = 0xffaa00
	ColorError   = 0xff0000
	ColorInfo    = 0x0099ff
	ColorPanel   = 0x2b2d31
)
