package cli

import "fmt"

// Severity and activity glyphs prefixing user-facing console messages.
const (
	GlyphTarget  = "🎯"
	GlyphLink    = "🔗"
	GlyphOK      = "✅"
	GlyphFail    = "❌"
	GlyphWarn    = "⚠️"
	GlyphSearch  = "🔍"
	GlyphStats   = "📊"
	GlyphList    = "📋"
	GlyphHint    = "💡"
	GlyphRobot   = "🤖"
	GlyphWrite   = "📝"
	GlyphSave    = "💾"
	GlyphArchive = "📚"
	GlyphWave    = "👋"
)

// Statusf prints a glyph-prefixed line to stdout.
func Statusf(glyph, format string, args ...any) {
	fmt.Printf(glyph+" "+format+"\n", args...)
}

// Okf prints a success line.
func Okf(format string, args ...any) { Statusf(GlyphOK, format, args...) }

// Failf prints a failure line.
func Failf(format string, args ...any) { Statusf(GlyphFail, format, args...) }

// Warnf prints a warning line.
func Warnf(format string, args ...any) { Statusf(GlyphWarn, format, args...) }

// Hintf prints an operator hint line.
func Hintf(format string, args ...any) { Statusf(GlyphHint, format, args...) }
