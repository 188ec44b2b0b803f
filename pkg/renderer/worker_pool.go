package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ErrTilePanic wraps the value recovered from a panicking tile render
var ErrTilePanic = errors.New("tile render panicked")

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int          // Index into the tile list
	Framebuffer   *Framebuffer // Shared buffer; the task owns only Tile.Bounds
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID  int
	Stats   RenderStats
	Error   error // Last failure when the tile had to be zero-filled
	Skipped bool  // The pool was stopped before the tile started
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	maxRetries  int
	logger      core.Logger
	wg          sync.WaitGroup
	stopped     atomic.Bool
	startOnce   sync.Once
	stopOnce    sync.Once
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID       int
	renderer *TileRenderer
	pool     *WorkerPool // Reference to parent pool for queues and settings
}

// DefaultWorkerCount returns the number of logical CPUs
func DefaultWorkerCount() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Queues are sized for maxTasks so submitting a full pass never blocks.
func NewWorkerPool(tileRenderer *TileRenderer, maxTasks, numWorkers, maxRetries int, logger core.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTasks),
		resultQueue: make(chan TileResult, maxTasks),
		numWorkers:  numWorkers,
		maxRetries:  maxRetries,
		logger:      logger,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:       i,
			renderer: tileRenderer,
			pool:     wp,
		})
	}

	return wp
}

// Start begins all workers. Calling it again is a no-op.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for _, worker := range wp.workers {
			wp.wg.Add(1)
			go worker.run(&wp.wg)
		}
	})
}

// Stop gracefully shuts down all workers. No task may be submitted afterwards.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// Cancel raises the stop flag. Tiles already running finish; queued tiles
// come back as skipped.
func (wp *WorkerPool) Cancel() {
	wp.stopped.Store(true)
}

// Cancelled reports whether Cancel has been called
func (wp *WorkerPool) Cancelled() bool {
	return wp.stopped.Load()
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.pool.taskQueue {
		if w.pool.stopped.Load() {
			w.pool.resultQueue <- TileResult{
				TaskID:  task.TaskID,
				Stats:   RenderStats{SkippedTiles: 1},
				Skipped: true,
			}
			continue
		}
		w.pool.resultQueue <- w.renderTask(task)
	}
}

// renderTask renders one tile, retrying after a panic. The tile's cells are
// restored before every retry so a failed attempt leaves no samples behind;
// once retries run out the tile is zero-filled to the target count.
func (w *Worker) renderTask(task TileTask) TileResult {
	bounds := task.Tile.Bounds
	snapshot := task.Framebuffer.snapshot(bounds)

	var lastErr error
	for attempt := 0; attempt <= w.pool.maxRetries; attempt++ {
		if attempt > 0 {
			task.Framebuffer.restore(bounds, snapshot)
			task.Tile.Reseed()
		}

		stats, err := w.tryRender(task)
		if err == nil {
			if attempt > 0 {
				stats.RetriedTiles = 1
			}
			return TileResult{TaskID: task.TaskID, Stats: stats}
		}

		lastErr = err
		w.pool.logger.Printf("Worker %d: %v (attempt %d of %d)\n", w.ID, err, attempt+1, w.pool.maxRetries+1)
	}

	task.Framebuffer.restore(bounds, snapshot)
	task.Framebuffer.zeroFill(bounds, task.TargetSamples)

	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  task.TargetSamples,
		FailedTiles: 1,
	}
	if w.pool.maxRetries > 0 {
		stats.RetriedTiles = 1
	}
	return TileResult{TaskID: task.TaskID, Stats: stats, Error: lastErr}
}

// tryRender converts a panic inside the tile render into an error
func (w *Worker) tryRender(task TileTask) (stats RenderStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tile %d: %v", ErrTilePanic, task.Tile.ID, r)
		}
	}()

	stats = w.renderer.RenderTileBounds(task.Tile.Bounds, task.Framebuffer, task.Tile.Random, task.TargetSamples)
	return stats, nil
}
