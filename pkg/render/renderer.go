// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/logging"
)

// Renderer draws simulation snapshots. Renderers only read the snapshot;
// they never touch the body store.
type Renderer interface {
	Clear()
	RenderBody(body engine.BodyState)
	RenderFlightInfo(state *engine.State)
	Present()
}

// Frame draws one full snapshot with r
func Frame(r Renderer, state *engine.State) {
	r.Clear()
	for _, b := range state.Bodies {
		r.RenderBody(b)
	}
	r.RenderFlightInfo(state)
	r.Present()
}

// NullRenderer logs render calls at debug level and draws nothing
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
}

// NewNullRenderer creates a NullRenderer; a nil logger discards everything
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// RenderBody implements Renderer.
func (d *NullRenderer) RenderBody(body engine.BodyState) {
	d.logger.Debug(context.Background(), "RenderBody called",
		"body_id", body.ID,
		"name", body.Name,
		"landed", body.Landed,
	)
}

// RenderFlightInfo implements Renderer.
func (d *NullRenderer) RenderFlightInfo(state *engine.State) {
	ctx := context.Background()
	if state == nil || !state.HasFlight {
		d.logger.Debug(ctx, "RenderFlightInfo called without flight info")
		return
	}
	d.logger.Debug(ctx, "RenderFlightInfo called",
		"speed", state.Flight.Speed,
		"altitude", state.Flight.Altitude,
		"closest", state.Flight.ClosestName,
	)
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// Frames returns the number of presented frames
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}
