// pkg/resource/manager.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aminion/ksp2d/pkg/config"
	"github.com/Aminion/ksp2d/pkg/logging"
)

var (
	// ErrGoroutineLimit is returned by Go when the limit is reached
	ErrGoroutineLimit = errors.New("goroutine limit reached")
	// ErrShutDown is returned by Go after Shutdown
	ErrShutDown = errors.New("resource manager shut down")
)

// ResourceManager runs the background goroutines of a frontend (event
// pollers, audio followers) under one cancellation context, so shutdown can
// wait for all of them.
type ResourceManager struct {
	maxGoroutines   int64
	shutdownTimeout time.Duration

	goroutineCount atomic.Int64
	panicCount     atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	logger *logging.Logger
}

// NewResourceManager creates a manager whose goroutines stop when parent is done
func NewResourceManager(parent context.Context, cfg config.RuntimeConfig, logger *logging.Logger) *ResourceManager {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	ctx, cancel := context.WithCancel(parent)
	return &ResourceManager{
		maxGoroutines:   int64(cfg.MaxGoroutines),
		shutdownTimeout: time.Duration(cfg.ShutdownTimeout * float64(time.Second)),
		ctx:             ctx,
		cancel:          cancel,
		logger:          logger,
	}
}

// Go starts fn in a tracked goroutine. fn must return once its context is done.
// A panic in fn is logged and counted instead of crashing the run.
func (rm *ResourceManager) Go(name string, fn func(context.Context)) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.closed {
		return fmt.Errorf("%w: cannot start %s", ErrShutDown, name)
	}
	if current := rm.goroutineCount.Load(); current >= rm.maxGoroutines {
		rm.logger.Warn(rm.ctx, "Goroutine limit exceeded",
			"current", current,
			"limit", rm.maxGoroutines,
			"name", name,
		)
		return fmt.Errorf("%w: %d/%d", ErrGoroutineLimit, current, rm.maxGoroutines)
	}

	rm.goroutineCount.Add(1)
	rm.wg.Add(1)
	go func() {
		defer rm.wg.Done()
		defer rm.goroutineCount.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				rm.panicCount.Add(1)
				rm.logger.Error(rm.ctx, "Goroutine panic", fmt.Errorf("panic: %v", r), "name", name)
			}
		}()

		rm.logger.Debug(rm.ctx, "goroutine started", "name", name)
		fn(rm.ctx)
	}()
	return nil
}

// GoroutineCount returns the number of running tracked goroutines
func (rm *ResourceManager) GoroutineCount() int64 {
	return rm.goroutineCount.Load()
}

// PanicCount returns how many tracked goroutines panicked
func (rm *ResourceManager) PanicCount() int64 {
	return rm.panicCount.Load()
}

// ResourceStats contains resource usage statistics.
type ResourceStats struct {
	GoroutineCount int64 `json:"goroutine_count"`
	MaxGoroutines  int64 `json:"max_goroutines"`
	Panics         int64 `json:"panics"`
}

// Stats returns current usage
func (rm *ResourceManager) Stats() ResourceStats {
	return ResourceStats{
		GoroutineCount: rm.GoroutineCount(),
		MaxGoroutines:  rm.maxGoroutines,
		Panics:         rm.PanicCount(),
	}
}

// Shutdown cancels every tracked goroutine and waits for them, bounded by
// the configured timeout and by ctx. It is safe to call more than once.
func (rm *ResourceManager) Shutdown(ctx context.Context) error {
	rm.mu.Lock()
	alreadyClosed := rm.closed
	rm.closed = true
	rm.mu.Unlock()
	if alreadyClosed {
		return nil
	}

	rm.logger.Info(ctx, "Shutting down resource manager", "goroutines", rm.GoroutineCount())
	rm.cancel()

	done := make(chan struct{})
	go func() {
		rm.wg.Wait()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(ctx, rm.shutdownTimeout)
	defer cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		remaining := rm.GoroutineCount()
		rm.logger.Warn(ctx, "Shutdown timeout exceeded with goroutines still running", "remaining", remaining)
		return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
	}
}
