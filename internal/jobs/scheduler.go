package jobs

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/worker"
)

// Scheduler submits recurring jobs to a queue on fixed intervals.
type Scheduler struct {
	cron  *gocron.Scheduler
	queue JobQueue
	log   *logger.Logger
}

func NewScheduler(queue JobQueue) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		cron:  s,
		queue: queue,
		log:   logger.Default().WithPrefix("scheduler"),
	}
}

// Every registers job to be queued once per interval, starting one interval
// after Start. A non-positive interval disables the job.
func (s *Scheduler) Every(interval time.Duration, job worker.Job) error {
	if interval <= 0 {
		s.log.Info("job %s disabled", job.Name())
		return nil
	}
	_, err := s.cron.Every(interval).WaitForSchedule().Tag(job.Name()).Do(func() {
		if err := s.queue.TrySubmit(job); err != nil {
			s.log.Warn("could not queue %s: %v", job.Name(), err)
		}
	})
	if err != nil {
		return err
	}
	s.log.Info("job %s scheduled every %v", job.Name(), interval)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return s.cron.Len()
}
