package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of an unfold job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusSplitting  JobStatus = "splitting"
	StatusExtracting JobStatus = "extracting"
	StatusStoring    JobStatus = "storing"
	StatusArchiving  JobStatus = "archiving"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single stream unfold.
type Job struct {
	mu sync.Mutex

	ID           string `json:"job_id"`
	CollectionID string `json:"collection_id"`
	Name         string `json:"name"`
	Filename     string `json:"filename"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Set once before Submit, read-only afterwards.
	Separator string `json:"-"`

	// Internal: not serialized.
	streamData []byte
	errors     []string
}

// Progress tracks unfold progress.
type Progress struct {
	TotalDocuments     int      `json:"total_documents"`
	DocumentsExtracted int      `json:"documents_extracted"`
	DocumentsArchived  int      `json:"documents_archived"`
	Errors             []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalDocuments records how many documents the stream unfolds to.
func (j *Job) SetTotalDocuments(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalDocuments = n
	j.UpdatedAt = time.Now()
}

// IncrExtracted atomically counts one extracted document.
func (j *Job) IncrExtracted() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsExtracted++
	j.UpdatedAt = time.Now()
}

// IncrArchived atomically counts one archived document.
func (j *Job) IncrArchived() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsArchived++
	j.UpdatedAt = time.Now()
}

// SetStreamData sets the raw stream bytes for processing.
func (j *Job) SetStreamData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.streamData = data
}

// StreamData returns the raw stream bytes.
func (j *Job) StreamData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.streamData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID           string    `json:"job_id"`
	CollectionID string    `json:"collection_id"`
	Name         string    `json:"name"`
	Filename     string    `json:"filename"`
	Status       JobStatus `json:"status"`
	Phase        string    `json:"phase"`
	Progress     Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:           j.ID,
		CollectionID: j.CollectionID,
		Name:         j.Name,
		Filename:     j.Filename,
		Status:       j.Status,
		Phase:        j.Phase,
		Progress: Progress{
			TotalDocuments:     j.Progress.TotalDocuments,
			DocumentsExtracted: j.Progress.DocumentsExtracted,
			DocumentsArchived:  j.Progress.DocumentsArchived,
			Errors:             errs,
		},
	}
}
