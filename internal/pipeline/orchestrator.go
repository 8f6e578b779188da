package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docfold/docfold/internal/archive"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/stats"
	"github.com/docfold/docfold/internal/store"
)

// Orchestrator manages the stream unfold pipeline.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	store   *store.Store
	archive *archive.Client // nil when archiving is disabled
	stats   *stats.PhaseStats
	log     *slog.Logger
	cfg     config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// stopMu orders Submit's queue sends before Stop's close: senders hold
	// the read lock, Stop flips stopped under the write lock.
	stopMu  sync.RWMutex
	stopped bool
}

// NewOrchestrator creates the pipeline. archiveClient may be nil.
func NewOrchestrator(cfg config.Config, st *store.Store, archiveClient *archive.Client, ps *stats.PhaseStats, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		store:   st,
		archive: archiveClient,
		stats:   ps,
		log:     log,
		cfg:     cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.archive, o.stats, o.log, o.cfg.MaxConcurrentExtract, o.cfg.MaxConcurrentArchive)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Evict expired jobs and idle collections.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
				o.store.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Submissions arriving after Stop
// are rejected rather than racing the queue close.
func (o *Orchestrator) Stop() {
	o.stopMu.Lock()
	if o.stopped {
		o.stopMu.Unlock()
		return
	}
	o.stopped = true
	o.stopMu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.stopMu.RLock()
	defer o.stopMu.RUnlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutdown")
		return fmt.Errorf("pipeline is shut down")
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the collection store for direct use by API handlers.
func (o *Orchestrator) Store() *store.Store {
	return o.store
}

// Archive returns the archive client, or nil when archiving is disabled.
func (o *Orchestrator) Archive() *archive.Client {
	return o.archive
}
