package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ljmd/internal/dynamo"
)

type bounds struct {
	minX, maxX, minY, maxY float64
}

func (b bounds) pad() bounds {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX: b.minX - rangeX*0.1,
		maxX: b.maxX + rangeX*0.1,
		minY: b.minY - rangeY*0.1,
		maxY: b.maxY + rangeY*0.1,
	}
}

// ParticlesToSVG draws the xy projection of p as a square image of the given
// size. A positive box frames the view on [0, box); otherwise the view is fitted
// to the particles.
func ParticlesToSVG(p dynamo.Particles, box float64, size int) string {
	if len(p) == 0 {
		return ""
	}

	var b bounds
	if box > 0 {
		b = bounds{0, box, 0, box}
	} else {
		b = bounds{p[0].X, p[0].X, p[0].Y, p[0].Y}
		for _, v := range p {
			b.minX = min(b.minX, v.X)
			b.maxX = max(b.maxX, v.X)
			b.minY = min(b.minY, v.Y)
			b.maxY = max(b.maxY, v.Y)
		}
		b = b.pad()
	}
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	s := float64(size)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, size, size, size, size))

	radius := max(s/200, 1)
	for _, v := range p {
		cx := (v.X - b.minX) / rangeX * s
		cy := s - (v.Y-b.minY)/rangeY*s
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, radius))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a single polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	b := bounds{0, float64(len(values) - 1), values[0], values[0]}
	for _, v := range values {
		b.minY = min(b.minY, v)
		b.maxY = max(b.maxY, v)
	}
	b = b.pad()
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := (float64(i) - b.minX) / rangeX * float64(width)
		y := float64(height) - (v-b.minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
