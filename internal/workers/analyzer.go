package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lumina-app/lumina-backend/internal/inference"
)

var (
	// ErrQueueFull is returned by Enqueue when the analysis backlog is at
	// capacity. The caller decides how to surface it; the request path must
	// never block on analysis.
	ErrQueueFull = errors.New("analysis queue is full")

	// ErrStopped is returned by Enqueue once Shutdown has begun.
	ErrStopped = errors.New("analyzer is stopped")
)

// PhotoStore is the slice of photo persistence the analyzer needs.
type PhotoStore interface {
	// CompleteAnalysis moves a processing photo to ready with its
	// recommendation in a single write. No-op if the photo already left
	// the processing state.
	CompleteAnalysis(photoID uuid.UUID, tool string, tags []string, latencyMs int) error

	// FailAnalysis moves a processing photo to failed. No partial fields
	// are written.
	FailAnalysis(photoID uuid.UUID) error
}

// Job is one photo awaiting caption + recommendation.
type Job struct {
	PhotoID  uuid.UUID
	ImageURL string
}

// Analyzer runs the asynchronous analysis phase of the upload pipeline:
// caption the image, classify it into a recommended tool, derive tags, and
// persist the result. Each job is bounded by a watchdog timeout so a hung
// inference call marks the photo failed instead of leaving it processing
// forever.
type Analyzer struct {
	store   PhotoStore
	engine  inference.Engine
	timeout time.Duration

	jobs chan Job
	wg   sync.WaitGroup

	// mu guards stopped and the jobs channel close, so a late Enqueue
	// fails cleanly instead of sending on a closed channel.
	mu      sync.Mutex
	stopped bool

	// OnComplete, if set before Start, is invoked after each job with the
	// terminal status written for the photo. Used for observability and in
	// tests; never required for correctness.
	OnComplete func(photoID uuid.UUID, status string)
}

func NewAnalyzer(store PhotoStore, engine inference.Engine, timeout time.Duration, queueSize int) *Analyzer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Analyzer{
		store:   store,
		engine:  engine,
		timeout: timeout,
		jobs:    make(chan Job, queueSize),
	}
}

// Start launches n workers draining the job queue.
func (a *Analyzer) Start(n int) {
	if n <= 0 {
		n = 2
	}
	for i := 0; i < n; i++ {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			for job := range a.jobs {
				a.process(job)
			}
		}()
	}
	slog.Info("analyzer started", "workers", n, "queue", cap(a.jobs))
}

// Enqueue schedules a job without blocking. After Shutdown it returns
// ErrStopped.
func (a *Analyzer) Enqueue(job Job) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return ErrStopped
	}
	select {
	case a.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting jobs and waits for in-flight ones to drain, up
// to the context deadline. Safe to call more than once.
func (a *Analyzer) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	if !a.stopped {
		a.stopped = true
		close(a.jobs)
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Analyzer) process(job Job) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	caption, err := a.engine.Caption(ctx, job.ImageURL)
	if err != nil {
		a.fail(job, "caption", err)
		return
	}

	normalized := NormalizeCaption(caption)
	tool := RecommendTool(normalized)
	tags := ExtractTags(normalized)
	latency := int(time.Since(start).Milliseconds())

	if err := a.store.CompleteAnalysis(job.PhotoID, tool, tags, latency); err != nil {
		a.fail(job, "persist", err)
		return
	}

	slog.Info("photo analyzed",
		"photo_id", job.PhotoID.String(),
		"tool", tool,
		"tags", len(tags),
		"latency_ms", latency,
	)
	a.notify(job, "ready")
}

func (a *Analyzer) fail(job Job, stage string, err error) {
	slog.Error("photo analysis failed",
		"photo_id", job.PhotoID.String(),
		"action", "analyze_"+stage,
		"error", err,
	)
	if err := a.store.FailAnalysis(job.PhotoID); err != nil {
		slog.Error("failed to mark photo failed", "photo_id", job.PhotoID.String(), "error", err)
	}
	a.notify(job, "failed")
}

func (a *Analyzer) notify(job Job, status string) {
	if a.OnComplete != nil {
		a.OnComplete(job.PhotoID, status)
	}
}
