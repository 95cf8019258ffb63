package entity

// NotePalette is the fixed client-side palette that Note.ColorIndex points into.
var NotePalette = []string{
	"#FFFFFF", // white
	"#F28B82", // red
	"#FBBC04", // orange
	"#FFF475", // yellow
	"#CCFF90", // green
	"#A7FFEB", // teal
	"#CBF0F8", // blue
	"#AECBFA", // dark blue
	"#D7AEFB", // purple
	"#FDCFE8", // pink
}

// ClampColorIndex forces i into the valid palette range.
func ClampColorIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(NotePalette) {
		return len(NotePalette) - 1
	}
	return i
}

func ColorAt(i int) string {
	return NotePalette[ClampColorIndex(i)]
}
