package timer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Color is one entry of the fixed board game palette.
type Color struct {
	Name  string
	Hex   string
	Class string
}

// Palette holds the common board game piece colors, in seating order.
var Palette = []Color{
	{Name: "Red", Hex: "#dc2626", Class: "red"},
	{Name: "Blue", Hex: "#2563eb", Class: "blue"},
	{Name: "Green", Hex: "#16a34a", Class: "green"},
	{Name: "Yellow", Hex: "#eab308", Class: "yellow"},
	{Name: "Purple", Hex: "#9333ea", Class: "purple"},
	{Name: "Orange", Hex: "#ea580c", Class: "orange"},
	{Name: "Pink", Hex: "#ec4899", Class: "pink"},
	{Name: "Teal", Hex: "#0d9488", Class: "teal"},
	{Name: "Brown", Hex: "#a16207", Class: "brown"},
	{Name: "White", Hex: "#f8fafc", Class: "white"},
	{Name: "Black", Hex: "#1f2937", Class: "black"},
	{Name: "Gray", Hex: "#6b7280", Class: "gray"},
}

// PaletteColor returns the palette entry for seat i, wrapping past the end.
//
// Precondition: i >= 0.
func PaletteColor(i int) Color {
	return Palette[i%len(Palette)]
}

// PaletteByName looks up a palette entry by name or class, case-insensitively.
func PaletteByName(name string) (Color, bool) {
	for _, c := range Palette {
		if strings.EqualFold(c.Name, name) || strings.EqualFold(c.Class, name) {
			return c, true
		}
	}
	return Color{}, false
}

var (
	hexColorRE = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbColorRE = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[\d.]+\s*)?\)$`)
)

// NormalizeColor converts a custom color to lowercase "#rrggbb".
// Accepted forms are "#rgb", "#rrggbb", "rgb(r, g, b)" and palette names.
//
// Postcondition: Returns (hex, true) on success, ("", false) otherwise.
func NormalizeColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if c, ok := PaletteByName(s); ok {
		return c.Hex, true
	}
	if hexColorRE.MatchString(s) {
		h := strings.ToLower(s[1:])
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		return "#" + h, true
	}
	m := rgbColorRE.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	var rgb [3]int
	for i := range rgb {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return "", false
		}
		rgb[i] = v
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]), true
}
