// Package importer processes submitted country-profile documents in the
// background, draining profile_import jobs from the SQLite queue.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/culturelens/internal/countries"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/storage"
)

// JobType is the queue type handled by Worker.
const JobType = "profile_import"

// ErrEmptyDocument is returned by Submit for a blank document.
var ErrEmptyDocument = errors.New("empty import document")

// JobStore abstracts the job queue and import bookkeeping.
type JobStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
	GetImport(id string) (storage.Import, error)
	UpdateImportResult(id, status string, imported int, errMsg string) error
}

// ProfileSink receives parsed profiles. Implemented by catalog.Manager.
type ProfileSink interface {
	Put(p culture.CountryProfile) (culture.CountryProfile, error)
}

// SubmitStore is the storage needed to queue an import.
type SubmitStore interface {
	SaveImport(imp storage.Import) error
	EnqueueJob(job storage.Job) error
}

type importPayload struct {
	ImportID string `json:"import_id"`
}

// Submit records document as a pending import and enqueues a job for it.
// It returns the import id.
func Submit(store SubmitStore, document string) (string, error) {
	if len(document) == 0 {
		return "", ErrEmptyDocument
	}
	id := uuid.New().String()
	if err := store.SaveImport(storage.Import{ID: id, Status: storage.ImportPending, Document: document}); err != nil {
		return "", fmt.Errorf("saving import: %w", err)
	}
	payload, err := json.Marshal(importPayload{ImportID: id})
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}
	job := storage.Job{
		ID:          uuid.New().String(),
		Type:        JobType,
		PayloadJSON: string(payload),
	}
	if err := store.EnqueueJob(job); err != nil {
		return "", fmt.Errorf("enqueueing import job: %w", err)
	}
	return id, nil
}

// Worker processes profile_import jobs from the SQLite job queue.
type Worker struct {
	store  JobStore
	sink   ProfileSink
	poll   time.Duration
	logger *slog.Logger
}

// NewWorker creates a Worker with the given dependencies.
// If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(store JobStore, sink ProfileSink, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		store:  store,
		sink:   sink,
		poll:   pollInterval,
		logger: slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("import worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// permanentError marks failures that retrying cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// RunOnce claims and processes a single profile_import job.
// Returns true if a job was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobType})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	importID, n, err := w.processJob(ctx, job)
	if err == nil {
		if err := w.store.UpdateImportResult(importID, storage.ImportCompleted, n, ""); err != nil {
			return true, fmt.Errorf("recording import %s: %w", importID, err)
		}
		if err := w.store.CompleteJob(job.ID); err != nil {
			return true, fmt.Errorf("completing job %s: %w", job.ID, err)
		}
		w.logger.Info("profiles imported", "import_id", importID, "count", n)
		return true, nil
	}

	w.logger.Warn("import job failed", "job_id", job.ID, "import_id", importID, "error", err)

	var perm permanentError
	final := errors.As(err, &perm) || job.Attempts+1 >= job.MaxAttempts
	if final && importID != "" {
		if upErr := w.store.UpdateImportResult(importID, storage.ImportFailed, 0, err.Error()); upErr != nil {
			w.logger.Error("failed to record import failure", "import_id", importID, "error", upErr)
		}
	}
	if errors.As(err, &perm) {
		// Nothing to retry; close the job out.
		if cErr := w.store.CompleteJob(job.ID); cErr != nil {
			w.logger.Error("failed to close job", "job_id", job.ID, "error", cErr)
		}
		return true, nil
	}
	if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
		w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
	}
	return true, nil
}

func (w *Worker) processJob(ctx context.Context, job *storage.Job) (string, int, error) {
	var payload importPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return "", 0, permanentError{fmt.Errorf("parsing payload: %w", err)}
	}

	imp, err := w.store.GetImport(payload.ImportID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", 0, permanentError{fmt.Errorf("import %s: %w", payload.ImportID, err)}
	}
	if err != nil {
		return payload.ImportID, 0, fmt.Errorf("loading import %s: %w", payload.ImportID, err)
	}

	profiles, err := countries.Parse([]byte(imp.Document))
	if err != nil {
		return imp.ID, 0, permanentError{err}
	}

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return imp.ID, 0, err
		}
		if _, err := w.sink.Put(p); err != nil {
			return imp.ID, 0, fmt.Errorf("storing %s: %w", p.Code, err)
		}
	}
	return imp.ID, len(profiles), nil
}
