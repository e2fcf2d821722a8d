package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chaoslab/internal/section"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	plotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Scatter renders (x, y) pairs on a braille canvas with axis extents.
func Scatter(points [][2]float64, width, height int, title, xLabel, yLabel string) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return warnStyle.Render("no points to plot")
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

	canvas := NewCanvas(width, height)
	subW := float64(width*2 - 1)
	subH := float64(height*4 - 1)

	for _, p := range points {
		px := int((p[0] - minX) / (maxX - minX) * subW)
		py := int(subH - (p[1]-minY)/(maxY-minY)*subH)
		canvas.Set(px, py)
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(titleStyle.Render(title))
		sb.WriteRune('\n')
	}
	sb.WriteString(plotStyle.Render(canvas.String()))
	sb.WriteString(axisStyle.Render(fmt.Sprintf("%s: [%.3g, %.3g]  %s: [%.3g, %.3g]  points: %d",
		xLabel, minX, maxX, yLabel, minY, maxY, len(points))))
	sb.WriteRune('\n')
	return sb.String()
}

// SectionScatter renders a Poincaré section, plotting the two
// coordinates not used to define the plane.
func SectionScatter(crossings []section.Crossing, plane section.Plane, width, height int, title string) string {
	if len(crossings) == 0 {
		return warnStyle.Render("no crossings detected")
	}

	names := []string{"x", "y", "z"}
	var xc, yc int
	picked := 0
	for i := 0; i < len(crossings[0].State) && picked < 2; i++ {
		if i == plane.Coord {
			continue
		}
		if picked == 0 {
			xc = i
		} else {
			yc = i
		}
		picked++
	}

	points := make([][2]float64, len(crossings))
	for i, c := range crossings {
		points[i] = [2]float64{c.State[xc], c.State[yc]}
	}

	label := func(i int) string {
		if i < len(names) {
			return names[i]
		}
		return fmt.Sprintf("x%d", i)
	}
	return Scatter(points, width, height, title, label(xc), label(yc))
}

// BifurcationScatter renders a diagram as parameter vs crossing value.
func BifurcationScatter(d *section.Diagram, width, height int, title string) string {
	out := Scatter(d.Pairs(), width, height, title, d.ParamName, fmt.Sprintf("x%d", d.ReportCoord))
	if diverged := d.Diverged(); len(diverged) > 0 {
		out += warnStyle.Render(fmt.Sprintf("diverged at %d parameter values: %v", len(diverged), diverged))
		out += "\n"
	}
	return out
}
