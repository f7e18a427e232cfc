package importer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/kalambet/culturelens/internal/catalog"
	"github.com/kalambet/culturelens/internal/culture"
	"github.com/kalambet/culturelens/internal/storage"
)

const validDoc = `
- code: xa
  name: Alpha
  culture_type: network
  dimensions: {pdi: 20, idv: 70, uai: 40, mas: 10}
- code: xb
  name: Beta
  culture_type: family
  dimensions: {pdi: 80, idv: 20, uai: 60}
`

type failingSink struct {
	mu    sync.Mutex
	calls int
}

func (f *failingSink) Put(p culture.CountryProfile) (culture.CountryProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return culture.CountryProfile{}, errors.New("disk full")
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSubmit_EmptyDocument(t *testing.T) {
	store := openTestStore(t)
	if _, err := Submit(store, ""); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestWorker_ImportsProfiles(t *testing.T) {
	store := openTestStore(t)
	cat := catalog.NewManager(store, nil, 0)

	id, err := Submit(store, validDoc)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	w := NewWorker(store, cat, 0)
	didWork, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if !didWork {
		t.Fatal("RunOnce returned false, expected true")
	}

	imp, err := store.GetImport(id)
	if err != nil {
		t.Fatalf("GetImport: %v", err)
	}
	if imp.Status != storage.ImportCompleted {
		t.Errorf("Status = %q, want %q (error %q)", imp.Status, storage.ImportCompleted, imp.Error)
	}
	if imp.Imported != 2 {
		t.Errorf("Imported = %d, want 2", imp.Imported)
	}

	p, err := cat.Get("XB")
	if err != nil {
		t.Fatalf("catalog Get: %v", err)
	}
	if p.Name != "Beta" {
		t.Errorf("Name = %q, want Beta", p.Name)
	}

	didWork, err = w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second RunOnce error: %v", err)
	}
	if didWork {
		t.Error("expected queue to be empty after completion")
	}
}

func TestWorker_InvalidDocumentFailsWithoutRetry(t *testing.T) {
	store := openTestStore(t)
	cat := catalog.NewManager(store, nil, 0)

	id, err := Submit(store, `[{code: XX, culture_type: family, dimensions: {pdi: 1}}]`)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	w := NewWorker(store, cat, 0)
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}

	imp, err := store.GetImport(id)
	if err != nil {
		t.Fatalf("GetImport: %v", err)
	}
	if imp.Status != storage.ImportFailed {
		t.Errorf("Status = %q, want %q", imp.Status, storage.ImportFailed)
	}
	if imp.Error == "" {
		t.Error("expected an error message on the import")
	}

	job, err := store.ClaimNextJob([]string{JobType})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if job != nil {
		t.Errorf("permanent failure must not be requeued, got %+v", job)
	}
}

func TestWorker_SinkFailureRetriesThenFails(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveImport(storage.Import{ID: "imp-1", Document: validDoc}); err != nil {
		t.Fatalf("SaveImport: %v", err)
	}
	payload, _ := json.Marshal(map[string]string{"import_id": "imp-1"})
	if err := store.EnqueueJob(storage.Job{ID: "job-1", Type: JobType, PayloadJSON: string(payload), MaxAttempts: 1}); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	sink := &failingSink{}
	w := NewWorker(store, sink, 0)
	didWork, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if !didWork {
		t.Fatal("RunOnce returned false, expected true")
	}
	if sink.calls != 1 {
		t.Errorf("sink calls = %d, want 1", sink.calls)
	}

	imp, err := store.GetImport("imp-1")
	if err != nil {
		t.Fatalf("GetImport: %v", err)
	}
	if imp.Status != storage.ImportFailed {
		t.Errorf("Status = %q, want %q", imp.Status, storage.ImportFailed)
	}
}

func TestWorker_SinkFailureBeforeLastAttemptStaysPending(t *testing.T) {
	store := openTestStore(t)

	id, err := Submit(store, validDoc)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	w := NewWorker(store, &failingSink{}, 0)
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}

	imp, err := store.GetImport(id)
	if err != nil {
		t.Fatalf("GetImport: %v", err)
	}
	if imp.Status != storage.ImportPending {
		t.Errorf("Status = %q, want %q while retries remain", imp.Status, storage.ImportPending)
	}
}

func TestWorker_MissingImportIsDropped(t *testing.T) {
	store := openTestStore(t)

	payload, _ := json.Marshal(map[string]string{"import_id": "ghost"})
	if err := store.EnqueueJob(storage.Job{ID: "job-ghost", Type: JobType, PayloadJSON: string(payload)}); err != nil {
		t.Fatalf("EnqueueJob: %v", err)
	}

	w := NewWorker(store, &failingSink{}, 0)
	if _, err := w.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	job, err := store.ClaimNextJob([]string{JobType})
	if err != nil {
		t.Fatalf("ClaimNextJob: %v", err)
	}
	if job != nil {
		t.Errorf("expected job to be closed, got %+v", job)
	}
}

func TestWorker_EmptyQueue(t *testing.T) {
	store := openTestStore(t)
	w := NewWorker(store, &failingSink{}, 0)

	didWork, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if didWork {
		t.Error("expected no work on empty queue")
	}
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	store := openTestStore(t)
	w := NewWorker(store, &failingSink{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}
