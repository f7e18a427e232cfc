package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Comparison is one recorded bilateral advice request. ResultJSON holds the
// full advice result as returned to the caller.
type Comparison struct {
	ID         string
	CreatedAt  time.Time
	CodeA      string
	CodeB      string
	Context    string
	ResultJSON string
}

// Import statuses.
const (
	ImportPending   = "pending"
	ImportCompleted = "completed"
	ImportFailed    = "failed"
)

// Import is a submitted profile document and the outcome of processing it.
type Import struct {
	ID        string
	Status    string
	Document  string
	Imported  int
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Job statuses.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// DefaultMaxAttempts applies when a job is enqueued without MaxAttempts.
const DefaultMaxAttempts = 3

// Job is one entry of the background work queue.
type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}
