package viz

import (
	"fmt"
	"strings"
)

// ScatterSVG renders (x, y) pairs as an SVG point cloud, the vector
// equivalent of the terminal scatter.
func ScatterSVG(points [][2]float64, width, height int, fill string) string {
	if len(points) == 0 {
		return ""
	}
	if fill == "" {
		fill = "#00ff00"
	}

	minX, maxX := points[0][0], points[0][0]
	minY, maxY := points[0][1], points[0][1]
	for _, p := range points {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	pad := 10.0
	w := float64(width)
	h := float64(height)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, fill))

	for _, p := range points {
		cx := pad + (p[0]-minX)/(maxX-minX)*(w-2*pad)
		cy := h - pad - (p[1]-minY)/(maxY-minY)*(h-2*pad)
		sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"1.2\"/>\n", cx, cy))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
