package ui

import "github.com/prettyresults/prettyresults/internal/icons"

// glyphs maps icon classes to terminal glyphs.
var glyphs = map[string]string{
	"fa-folder-open": "▾",
	"fa-folder":      "▸",
	"fa-bar-chart":   "◩",
	"fa-table":       "▦",
}

// Glyph returns the terminal glyph for an icon class. Classes without a
// glyph, including icons.None, render as a bullet.
func Glyph(icon string) string {
	if icon == icons.None {
		return "•"
	}
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return "•"
}
