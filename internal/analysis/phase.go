package analysis

import (
	"strings"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds (position.y, velocity.y) pairs of a run.
type PhasePortrait2D struct {
	Points []Point
}

func PhasePortrait(frames []dynamo.Frame) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		Points: make([]Point, 0, len(frames)),
	}
	for _, f := range frames {
		portrait.Points = append(portrait.Points, Point{
			X: f.Body.Position.Y,
			Y: f.Body.Velocity.Y,
		})
	}
	return portrait
}

// BounceSection records (time, velocity.y) at every wall contact.
func BounceSection(frames []dynamo.Frame) *PhasePortrait2D {
	section := &PhasePortrait2D{
		Points: make([]Point, 0),
	}
	for _, f := range frames {
		if f.Events.Bounced() {
			section.Points = append(section.Points, Point{X: f.Time, Y: f.Body.Velocity.Y})
		}
	}
	return section
}

// PhasePortraitToASCII plots the portrait on a width x height grid with
// axes drawn where they cross the visible area.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, p := range portrait.Points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// BounceSectionToASCII plots a bounce section, or explains that none exist.
func BounceSectionToASCII(section *PhasePortrait2D, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No bounces detected"
	}
	return PhasePortraitToASCII(section, width, height)
}
