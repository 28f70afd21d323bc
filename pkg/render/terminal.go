// pkg/render/terminal.go
package render

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

// terminal cells are roughly twice as tall as wide
const terminalCellAspect = 2.0

// rocketLength is the drawn rocket size in metres when zoomed far in
const rocketLength = 50.0

var headingGlyphs = [8]rune{'↑', '↖', '←', '↙', '↓', '↘', '→', '↗'}

var (
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	alertStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	rocketStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// TerminalRenderer draws snapshots on a tcell screen
type TerminalRenderer struct {
	screen tcell.Screen
	camera *Camera
	perf   PerformanceCounter
}

// NewTerminalRenderer creates a renderer over an initialised screen.
// scale is the initial zoom in metres per column.
func NewTerminalRenderer(screen tcell.Screen, scale float64) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		camera: NewCamera(w, h, scale, terminalCellAspect),
		perf:   NewPerformanceCounter(),
	}
}

// Camera returns the renderer's camera
func (r *TerminalRenderer) Camera() *Camera {
	return r.camera
}

// Draw updates the camera from state and renders one frame
func (r *TerminalRenderer) Draw(state *engine.State) {
	w, h := r.screen.Size()
	r.camera.SetViewport(w, h)
	r.camera.Update(state)
	Frame(r, state)
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// RenderBody implements Renderer
func (r *TerminalRenderer) RenderBody(b engine.BodyState) {
	if b.Celestial {
		r.renderCelestial(b)
		return
	}
	r.renderRocket(b)
}

func (r *TerminalRenderer) renderCelestial(b engine.BodyState) {
	if !r.camera.Visible(physics.CircleAABB(b.Position, b.Radius)) {
		return
	}
	style := tcell.StyleDefault.Foreground(terminalColor(b.Color))

	if b.Radius/r.camera.Scale < 1 {
		glyph := 'o'
		if b.Class == entity.Star {
			glyph = '*'
		}
		x, y := r.camera.WorldToScreen(b.Position)
		r.screen.SetContent(x, y, glyph, nil, style)
		return
	}

	// fill the cells whose centres lie inside the disc, clipped to the viewport
	x0, y0 := r.camera.WorldToScreen(physics.Vector2D{X: b.Position.X - b.Radius, Y: b.Position.Y + b.Radius})
	x1, y1 := r.camera.WorldToScreen(physics.Vector2D{X: b.Position.X + b.Radius, Y: b.Position.Y - b.Radius})
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, r.camera.Width-1), min(y1, r.camera.Height-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if physics.PointInCircle(r.camera.ScreenToWorld(x, y), b.Position, b.Radius) {
				r.screen.SetContent(x, y, '█', nil, style)
			}
		}
	}
}

func (r *TerminalRenderer) renderRocket(b engine.BodyState) {
	size := max(rocketLength, r.camera.Scale)
	heading := physics.Up.Rotate(b.Angle)
	nose := b.Position.Add(heading.Scale(size / 2))
	left := b.Position.Add(heading.Rotate(2.5).Scale(size / 2))
	right := b.Position.Add(heading.Rotate(-2.5).Scale(size / 2))
	if !r.camera.Visible(physics.TriangleAABB(nose, left, right)) {
		return
	}

	x, y := r.camera.WorldToScreen(b.Position)
	r.screen.SetContent(x, y, HeadingGlyph(b.Angle), nil, rocketStyle)
}

// RenderFlightInfo implements Renderer
func (r *TerminalRenderer) RenderFlightInfo(state *engine.State) {
	lines := FlightInfoLines(state, r.perf.FPS(), r.camera.Mode)
	for i, line := range lines {
		r.drawText(0, i, hudStyle, line)
	}
	if state.Halted {
		r.drawText(0, len(lines), alertStyle, "SIMULATION HALTED")
	}
}

// FlightInfoLines formats the HUD text shared by the frontends
func FlightInfoLines(state *engine.State, fps int, mode CameraMode) []string {
	lines := []string{
		fmt.Sprintf("T+%s  tick %d  warp x%g  %d fps  camera %s",
			FormatDuration(state.Elapsed), state.Tick, state.TimeWarp, fps, mode),
	}

	if rs, ok := state.RocketState(); ok {
		status := "flying"
		if rs.Landed {
			status = "landed"
		}
		lines = append(lines, fmt.Sprintf("speed %s  %s  throttle aft %3.0f%% fore %3.0f%%",
			FormatSpeed(rs.Velocity.Length()), status,
			rs.Throttles[entity.EngineAft]*100, rs.Throttles[entity.EngineFore]*100))
	}
	if state.HasFlight {
		f := state.Flight
		lines = append(lines, fmt.Sprintf("closest %s  alt %s  rel %s",
			f.ClosestName, FormatDistance(f.Altitude), FormatSpeed(f.RelativeSpeed)))
	}
	return lines
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	r.perf.Frame()
	r.screen.Show()
}

func (r *TerminalRenderer) drawText(x, y int, style tcell.Style, text string) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// HeadingGlyph returns the arrow closest to the direction Up rotated by angle
func HeadingGlyph(angle float64) rune {
	i := int(math.Round(physics.NormalizeAngle(angle)/(math.Pi/4))) % len(headingGlyphs)
	return headingGlyphs[i]
}

func terminalColor(c colorful.Color) tcell.Color {
	if c == (colorful.Color{}) {
		return tcell.ColorWhite
	}
	red, green, blue := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(red), int32(green), int32(blue))
}

// PerformanceCounter measures presented frames per second, refreshed once a second
type PerformanceCounter struct {
	now    func() time.Time
	start  time.Time
	frames int
	fps    int
}

// NewPerformanceCounter creates a counter on the wall clock
func NewPerformanceCounter() PerformanceCounter {
	return PerformanceCounter{now: time.Now}
}

// Frame counts one presented frame; the first frame starts the clock
func (p *PerformanceCounter) Frame() {
	now := p.now()
	if p.start.IsZero() {
		p.start = now
		return
	}
	p.frames++
	if elapsed := now.Sub(p.start); elapsed >= time.Second {
		p.fps = int(math.Round(float64(p.frames) / elapsed.Seconds()))
		p.start, p.frames = now, 0
	}
}

// FPS returns the last measured rate
func (p *PerformanceCounter) FPS() int {
	return p.fps
}

// FormatDistance renders metres with an SI prefix
func FormatDistance(m float64) string {
	abs := math.Abs(m)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2f Gm", m/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2f Mm", m/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2f km", m/1e3)
	default:
		return fmt.Sprintf("%.1f m", m)
	}
}

// FormatSpeed renders a speed in m/s or km/s
func FormatSpeed(v float64) string {
	if math.Abs(v) >= 1e4 {
		return fmt.Sprintf("%.2f km/s", v/1e3)
	}
	return fmt.Sprintf("%.1f m/s", v)
}

// FormatDuration renders simulated seconds as days, hours, minutes and seconds
func FormatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	if days > 0 {
		return fmt.Sprintf("%dd%s", days, d)
	}
	return d.String()
}
