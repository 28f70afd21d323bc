// cmd/ksp2d/terminal.go
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/engine"
	"github.com/Aminion/ksp2d/pkg/input"
	"github.com/Aminion/ksp2d/pkg/logging"
	"github.com/Aminion/ksp2d/pkg/render"
	"github.com/Aminion/ksp2d/pkg/resource"
)

// terminalScale is the initial zoom in metres per column
const terminalScale = 2.5e5

// runTerminal drives the simulation at the configured time step and draws
// every tick on a tcell screen until quit or ctx is done
func runTerminal(ctx context.Context, sim *engine.Simulation, cfg *config.Config, mgr *resource.ResourceManager, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	r := render.NewTerminalRenderer(screen, terminalScale)
	latch := input.NewLatch(input.DefaultHold)
	controls := &input.Controls{
		Warp:    sim,
		Camera:  r.Camera(),
		Limiter: input.NewRateLimiter(input.WarpRepeat, input.WarpWindow),
		Logger:  logger,
	}

	// PollEvent returns nil once the screen is finalized
	events := make(chan tcell.Event, 100)
	err = mgr.Go("tcell-poller", func(ctx context.Context) {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start input poller: %w", err)
	}

	dt := cfg.Simulation.TimeStep
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	halted := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if handleKey(ctx, ev, latch, controls) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			if err := sim.Step(ctx, dt, latch.Intents()); err != nil && !halted {
				// keep drawing the frozen system so the player can read the HUD
				halted = true
				logger.Error(ctx, "simulation halted", err)
			}
			r.Draw(sim.Snapshot())
		}
	}
}

// handleKey routes a key to the latch or to a frontend action and reports
// whether the frontend should quit
func handleKey(ctx context.Context, ev *tcell.EventKey, latch *input.Latch, controls *input.Controls) bool {
	b, ok := input.Lookup(ev)
	if !ok {
		return false
	}
	if b.Action == input.ActionIntent {
		latch.Press(b.Intent)
		return false
	}
	return controls.Apply(ctx, b.Action)
}
