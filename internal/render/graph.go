package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille cells hold a 2x4 dot matrix, giving graphs twice the horizontal and
// four times the vertical resolution of block characters. Unicode braille
// starts at U+2800 with one bit per dot.
const brailleBase = '⠀'

// brailleDots maps [row][col] of the dot matrix to its bit.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Scale is the value range a graph maps onto its height.
type Scale struct {
	Min, Max float64
}

// PercentScale is the fixed 0-100 range.
var PercentScale = Scale{Min: 0, Max: 100}

// AutoScale fits the range to data with a zero floor, for rates.
func AutoScale(data ...[]float64) Scale {
	s := Scale{}
	for _, d := range data {
		for _, v := range d {
			if v > s.Max {
				s.Max = v
			}
		}
	}
	if s.Max <= 0 {
		s.Max = 1
	}
	return s
}

func (s Scale) norm(v float64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	n := (v - s.Min) / (s.Max - s.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Braille renders data as a right-aligned braille area graph, width cells
// wide and height rows high. Percent graphs are colored per column by
// severity; other graphs use color.
func Braille(data []float64, width, height int, scale Scale, color lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	points := width * 2
	if len(data) > points {
		data = resample(data, points)
	}
	totalDots := height * 4
	percent := scale == PercentScale

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(brailleBase), width))
	}
	colMax := make([]float64, width)

	offset := points - len(data)
	for i, v := range data {
		pos := i + offset
		col, sub := pos/2, pos%2
		if v > colMax[col] {
			colMax[col] = v
		}
		dots := int(scale.norm(v) * float64(totalDots))
		if dots == 0 && v > scale.Min {
			dots = 1
		}
		for d := 0; d < dots; d++ {
			row := height - 1 - d/4
			grid[row][col] |= rune(1) << brailleDots[3-d%4][sub]
		}
	}

	lines := make([]string, height)
	for r, row := range grid {
		if !percent {
			lines[r] = lipgloss.NewStyle().Foreground(color).Render(string(row))
			continue
		}
		var b strings.Builder
		for c, ch := range row {
			b.WriteString(MetricStyle(colMax[c]).Render(string(ch)))
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// Sparkline renders data as one row of block characters, right-aligned.
func Sparkline(data []float64, width int, scale Scale) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = resample(data, width)
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(data)))
	for _, v := range data {
		idx := int(scale.norm(v) * float64(len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// resample compresses data to size points, keeping the peak of each bucket
// so short spikes survive.
func resample(data []float64, size int) []float64 {
	if len(data) <= size || size <= 0 {
		return data
	}
	out := make([]float64, size)
	bucket := float64(len(data)) / float64(size)
	for i := range out {
		start := int(float64(i) * bucket)
		end := min(int(float64(i+1)*bucket), len(data))
		if start >= end {
			start = end - 1
		}
		peak := data[start]
		for _, v := range data[start+1 : end] {
			if v > peak {
				peak = v
			}
		}
		out[i] = peak
	}
	return out
}
