// pkg/render/terminal_test.go
package render

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/entity"
	"github.com/Aminion/ksp2d/pkg/physics"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, y, w int) string {
	var sb strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(mainc)
	}
	return sb.String()
}

func testState() *engine.State {
	return &engine.State{
		Tick:     42,
		Elapsed:  90061,
		TimeWarp: 10,
		Bodies: []engine.BodyState{
			{ID: 1, Name: "Kerbol", Class: entity.Star, Celestial: true, Radius: 30,
				Color: colorful.Color{R: 1, G: 1, B: 0}},
			{ID: 2, Name: "far", Class: entity.Planet, Celestial: true, Radius: 5,
				Position: physics.Vector2D{X: 1e9}},
			{ID: 3, Name: "rocket", Rocket: true, Position: physics.Vector2D{X: 100},
				Velocity: physics.Vector2D{X: 3, Y: 4}, Throttles: [4]float64{0, 0.5, 0, 0}},
		},
		Flight: engine.FlightInfo{
			Speed: 5, RelativeSpeed: 5, Altitude: 70, ClosestName: "Kerbol",
		},
		HasFlight: true,
	}
}

func TestTerminalRenderer_Draw(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	r := NewTerminalRenderer(screen, 10)

	r.Draw(testState())

	// the follow camera centres the rocket
	if mainc, _, _, _ := screen.GetContent(20, 10); mainc != '↑' {
		t.Errorf("rocket glyph = %q, want '↑'", mainc)
	}

	// the star disc sits ten columns to the left
	mainc, _, style, _ := screen.GetContent(10, 10)
	if mainc != '█' {
		t.Errorf("star cell = %q, want '█'", mainc)
	}
	fg, _, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 0) {
		t.Errorf("star colour = %v, want yellow", fg)
	}

	hud := rowText(screen, 0, 40)
	if !strings.HasPrefix(hud, "T+1d1h1m1s  tick 42") {
		t.Errorf("HUD line = %q", hud)
	}
	if line := rowText(screen, 1, 40); !strings.Contains(line, "5.0 m/s") || !strings.Contains(line, "flying") {
		t.Errorf("rocket line = %q", line)
	}
	if line := rowText(screen, 2, 40); !strings.Contains(line, "closest Kerbol") || !strings.Contains(line, "70.0 m") {
		t.Errorf("flight line = %q", line)
	}
}

func TestTerminalRenderer_HaltedBanner(t *testing.T) {
	screen := newTestScreen(t, 60, 10)
	r := NewTerminalRenderer(screen, 10)
	state := testState()
	state.Halted = true

	r.Draw(state)

	if line := rowText(screen, 3, 60); !strings.HasPrefix(line, "SIMULATION HALTED") {
		t.Errorf("row 3 = %q", line)
	}
}

func TestTerminalRenderer_SmallBodiesUseGlyphs(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	r := NewTerminalRenderer(screen, 1000)
	r.Camera().Center = physics.Vector2D{}

	r.Clear()
	r.RenderBody(engine.BodyState{Celestial: true, Class: entity.Star, Radius: 10})
	r.RenderBody(engine.BodyState{Celestial: true, Class: entity.Planet, Radius: 10, Position: physics.Vector2D{X: 5000}})
	r.RenderBody(engine.BodyState{Celestial: true, Class: entity.Planet, Radius: 10, Position: physics.Vector2D{X: 1e7}})
	r.Present()

	if mainc, _, _, _ := screen.GetContent(20, 10); mainc != '*' {
		t.Errorf("star glyph = %q, want '*'", mainc)
	}
	if mainc, _, _, _ := screen.GetContent(25, 10); mainc != 'o' {
		t.Errorf("planet glyph = %q, want 'o'", mainc)
	}
}

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		angle float64
		want  rune
	}{
		{0, '↑'},
		{math.Pi / 2, '←'},
		{math.Pi, '↓'},
		{3 * math.Pi / 2, '→'},
		{-math.Pi / 4, '↗'},
		{2*math.Pi - 0.01, '↑'},
	}
	for _, tt := range tests {
		if got := HeadingGlyph(tt.angle); got != tt.want {
			t.Errorf("HeadingGlyph(%v) = %q, want %q", tt.angle, got, tt.want)
		}
	}
}

func TestPerformanceCounter(t *testing.T) {
	clock := time.Unix(0, 0)
	p := PerformanceCounter{now: func() time.Time { return clock }}

	for i := 0; i < 30; i++ {
		p.Frame()
		clock = clock.Add(50 * time.Millisecond)
	}
	if p.FPS() != 20 {
		t.Errorf("FPS() = %d, want 20", p.FPS())
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatDistance(12.34), "12.3 m"},
		{FormatDistance(-4500), "-4.50 km"},
		{FormatDistance(6.371e6), "6.37 Mm"},
		{FormatDistance(1.5e11), "150.00 Gm"},
		{FormatSpeed(7800), "7800.0 m/s"},
		{FormatSpeed(29780), "29.78 km/s"},
		{FormatDuration(59.6), "1m0s"},
		{FormatDuration(0), "0s"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
