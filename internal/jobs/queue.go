package jobs

import "github.com/vytor/repeetcode/internal/worker"

// JobQueue accepts background jobs without blocking the caller
type JobQueue interface {
	TrySubmit(job worker.Job) error
}
