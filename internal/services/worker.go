package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrsystem/internal/models"
)

// candidateSource is the slice of the candidate repository the reindex
// worker reads from.
type candidateSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	FindAllActive(ctx context.Context) ([]models.Candidate, error)
}

// ReindexWorker rebuilds search index documents in the background: single
// candidates on request, and full sweeps over all non-deleted candidates
// either on demand or on a timer. The index is a disposable projection, so a
// sweep is always safe to re-run.
type ReindexWorker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueCandidate(candidateID uuid.UUID)
	EnqueueSweep()
	ReindexAll(ctx context.Context) (int, error)
}

type reindexWorker struct {
	candidates  candidateSource
	indexer     *Indexer
	jobQueue    chan uuid.UUID
	sweepChan   chan struct{}
	concurrency int
	interval    time.Duration
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewReindexWorker(
	candidates candidateSource,
	indexer *Indexer,
	concurrency int,
	interval time.Duration,
) ReindexWorker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &reindexWorker{
		candidates:  candidates,
		indexer:     indexer,
		jobQueue:    make(chan uuid.UUID, 100),
		sweepChan:   make(chan struct{}, 1),
		concurrency: concurrency,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start implements ReindexWorker.
func (w *reindexWorker) Start(ctx context.Context) {
	log.Printf("🚀 Starting reindex worker with %d concurrent workers", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.runSweeps(ctx)

	log.Println("✅ Reindex worker started successfully")
}

// Stop implements ReindexWorker.
func (w *reindexWorker) Stop() {
	log.Println("🛑 Stopping reindex worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Reindex worker stopped")
}

// EnqueueCandidate implements ReindexWorker.
func (w *reindexWorker) EnqueueCandidate(candidateID uuid.UUID) {
	select {
	case w.jobQueue <- candidateID:
		log.Printf("📥 Reindex job %s enqueued", candidateID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue reindex job %s", candidateID)
	}
}

// EnqueueSweep requests a full reindex sweep from the worker. Requests made
// while a sweep is already pending coalesce into one.
func (w *reindexWorker) EnqueueSweep() {
	select {
	case w.sweepChan <- struct{}{}:
		log.Println("📥 Full reindex sweep enqueued")
	default:
		log.Println("⚠️  Reindex sweep already pending")
	}
}

// ReindexAll re-runs creation-equivalent sync over every non-deleted
// candidate. Per-candidate index failures are swallowed by the indexer; only
// the candidate listing itself can fail.
func (w *reindexWorker) ReindexAll(ctx context.Context) (int, error) {
	candidates, err := w.candidates.FindAllActive(ctx)
	if err != nil {
		return 0, err
	}

	for i := range candidates {
		w.indexer.CandidateCreated(ctx, &candidates[i])
	}

	log.Printf("✅ Reindexed %d candidates", len(candidates))
	return len(candidates), nil
}

func (w *reindexWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Reindex worker #%d stopped", workerID)
			return
		case candidateID := <-w.jobQueue:
			candidate, err := w.candidates.FindByID(ctx, candidateID)
			if err != nil {
				log.Printf("⚠️  Reindex worker #%d could not load candidate %s: %v", workerID, candidateID, err)
				continue
			}
			w.indexer.CandidateUpdated(ctx, candidate)
		}
	}
}

func (w *reindexWorker) runSweeps(ctx context.Context) {
	defer w.wg.Done()

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
		log.Printf("🔄 Periodic reindex sweep every %s", w.interval)
	}

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Reindex sweep loop stopped")
			return
		case <-w.sweepChan:
			if _, err := w.ReindexAll(ctx); err != nil {
				log.Printf("⚠️  Reindex sweep failed: %v", err)
			}
		case <-tick:
			if _, err := w.ReindexAll(ctx); err != nil {
				log.Printf("⚠️  Periodic reindex sweep failed: %v", err)
			}
		}
	}
}
