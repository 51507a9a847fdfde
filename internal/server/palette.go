package server

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const goldenAngle = 137.50776405003785

// basePalette seeds the first series colors; later series continue on the
// hue wheel in golden-angle steps.
var basePalette = []string{
	"#1f77b4", "#d62728", "#2ca02c", "#ff7f0e", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Palette returns n chart colors as hex strings. The same n always yields the
// same colors, and a shorter palette is a prefix of a longer one.
func Palette(n int) []string {
	if n <= 0 {
		return []string{}
	}

	colors := make([]string, n)
	for i := range colors {
		if i < len(basePalette) {
			colors[i] = basePalette[i]
			continue
		}
		hue := math.Mod(float64(i)*goldenAngle, 360)
		colors[i] = colorful.Hsl(hue, 0.65, 0.45).Hex()
	}
	return colors
}
