package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docfold/docfold/internal/archive"
	"github.com/docfold/docfold/internal/article"
	"github.com/docfold/docfold/internal/docmodel"
	"github.com/docfold/docfold/internal/splitter"
	"github.com/docfold/docfold/internal/stats"
	"github.com/docfold/docfold/internal/store"
)

// Worker processes a single unfold job.
type Worker struct {
	store   *store.Store
	archive *archive.Client
	stats   *stats.PhaseStats
	log     *slog.Logger

	maxConcurrentExtract int
	maxConcurrentArchive int

	// backoff is Backoff in production; tests shorten it.
	backoff func(attempt int) time.Duration
}

func NewWorker(st *store.Store, ac *archive.Client, ps *stats.PhaseStats, log *slog.Logger, maxExtract, maxArchive int) *Worker {
	return &Worker{
		store:                st,
		archive:              ac,
		stats:                ps,
		log:                  log,
		maxConcurrentExtract: maxExtract,
		maxConcurrentArchive: maxArchive,
		backoff:              Backoff,
	}
}

// Process runs the full unfold pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "collection_id", job.CollectionID)

	stream := string(job.StreamData())

	// Phase 1: Split.
	job.SetStatus(StatusSplitting, "splitting")
	start := time.Now()
	spans := splitter.Split(stream, job.Separator)
	w.stats.Record("split", time.Since(start))
	job.SetTotalDocuments(len(spans))
	log.Info("split stream", "documents", len(spans), "bytes", len(stream))

	// Phase 2: Extract metadata with bounded concurrency. Each goroutine
	// writes only its own slot, so the slice needs no lock.
	job.SetStatus(StatusExtracting, "extracting")
	start = time.Now()
	docs := make([]*docmodel.Document, len(spans))
	sem := make(chan struct{}, w.maxConcurrentExtract)
	done := make(chan int, len(spans))

	for i, span := range spans {
		sem <- struct{}{}
		go func(i int, span string) {
			defer func() { <-sem }()
			docs[i] = article.Extract(i, span)
			done <- i
		}(i, span)
	}
	for range spans {
		<-done
		job.IncrExtracted()
	}
	w.stats.Record("extract", time.Since(start))

	// Phase 3: Store the collection.
	job.SetStatus(StatusStoring, "storing")
	now := time.Now()
	coll := &docmodel.Collection{
		ID:         job.CollectionID,
		Name:       job.Name,
		Separator:  job.Separator,
		SourceHash: docmodel.StreamHash(stream),
		CreatedAt:  now,
		UpdatedAt:  now,
		Documents:  docs,
	}

	// Round-trip invariant: refolding must reproduce the source exactly.
	if refolded := coll.Refold(); refolded != stream {
		log.Error("refold mismatch, rejecting collection",
			"source_bytes", len(stream), "refolded_bytes", len(refolded))
		job.AddError("refold does not reproduce source stream")
		job.SetStatus(StatusFailed, "storing")
		return
	}

	w.store.Put(coll)
	log.Info("stored collection", "documents", len(docs))

	// Phase 4: Archive (optional).
	hadErrors := false
	if w.archive != nil {
		job.SetStatus(StatusArchiving, "archiving")
		start = time.Now()
		hadErrors = w.archiveCollection(ctx, job, coll, log)
		w.stats.Record("archive", time.Since(start))
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// archiveCollection mirrors every document plus the collection meta to the
// archive, retrying retryable failures. Reports whether any write failed.
func (w *Worker) archiveCollection(ctx context.Context, job *Job, coll *docmodel.Collection, log *slog.Logger) bool {
	sem := make(chan struct{}, w.maxConcurrentArchive)
	results := make(chan error, len(coll.Documents))

	for _, doc := range coll.Documents {
		sem <- struct{}{}
		go func(doc *docmodel.Document) {
			defer func() { <-sem }()
			results <- w.putWithRetry(ctx, log, doc.Index, func() error {
				return w.archive.PutDocument(ctx, coll.ID, doc)
			})
		}(doc)
	}

	hadErrors := false
	for range coll.Documents {
		if err := <-results; err != nil {
			job.AddError(err.Error())
			hadErrors = true
		} else {
			job.IncrArchived()
		}
	}

	if err := w.archive.PutMeta(ctx, coll.Summarize()); err != nil {
		log.Error("archive meta write failed", "error", err)
		job.AddError(fmt.Sprintf("meta: %s", err))
		hadErrors = true
	}
	return hadErrors
}

func (w *Worker) putWithRetry(ctx context.Context, log *slog.Logger, index int, put func() error) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = put()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable archive error", "document", index, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
