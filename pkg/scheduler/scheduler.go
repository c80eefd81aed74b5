package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"gofiber-todo/pkg/logger"
)

// EventScheduler งานตามเวลา (เช่น reminder digest รายวัน)
type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	RemoveJob(id string) error
	// RunNow สั่งรัน job ทันทีนอกรอบ cron
	RunNow(id string) error
	GetJob(id string) (*JobInfo, bool)
	ListJobs() map[string]*JobInfo
	IsRunning() bool
}

type JobInfo struct {
	ID       string
	CronExpr string
	IsActive bool
	LastRun  *time.Time
	NextRun  *time.Time
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*scheduledJob
	mu        sync.RWMutex
	running   bool
}

type scheduledJob struct {
	info JobInfo
	job  *gocron.Job
	task func()
}

// NewEventScheduler loc = nil ใช้ UTC
func NewEventScheduler(loc *time.Location) EventScheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()

	return &GocronScheduler{
		scheduler: s,
		jobs:      make(map[string]*scheduledJob),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		logger.Warn("Scheduler is already running")
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Event scheduler started", "jobs", len(s.jobs))
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.scheduler.Stop()
	s.running = false
	logger.Info("Event scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	entry := &scheduledJob{
		info: JobInfo{ID: id, CronExpr: cronExpr, IsActive: true},
		task: task,
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		s.execute(id)
	})
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	entry.job = job
	s.jobs[id] = entry

	logger.Info("Job added", "job_id", id, "cron", cronExpr)
	return nil
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	if entry.job != nil {
		s.scheduler.RemoveByReference(entry.job)
	}

	delete(s.jobs, id)
	logger.Info("Job removed", "job_id", id)
	return nil
}

func (s *GocronScheduler) RunNow(id string) error {
	s.mu.RLock()
	_, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	go s.execute(id)
	return nil
}

func (s *GocronScheduler) GetJob(id string) (*JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.jobs[id]
	if !exists {
		return nil, false
	}
	return entry.snapshot(), true
}

func (s *GocronScheduler) ListJobs() map[string]*JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]*JobInfo, len(s.jobs))
	for id, entry := range s.jobs {
		jobs[id] = entry.snapshot()
	}
	return jobs
}

func (s *GocronScheduler) execute(id string) {
	now := time.Now()

	s.mu.Lock()
	entry, exists := s.jobs[id]
	if exists {
		entry.info.LastRun = &now
	}
	s.mu.Unlock()

	if !exists {
		return
	}

	logger.Info("Executing job", "job_id", id, "at", now.Format(time.RFC3339))
	entry.task()
}

// snapshot copy กัน caller แก้ state ภายใน
func (j *scheduledJob) snapshot() *JobInfo {
	info := j.info
	if j.info.LastRun != nil {
		lastRun := *j.info.LastRun
		info.LastRun = &lastRun
	}
	if j.job != nil {
		if next := j.job.NextRun(); !next.IsZero() {
			info.NextRun = &next
		}
	}
	return &info
}

// ValidateCronExpression ตรวจ cron ก่อน register
func ValidateCronExpression(cronExpr string) error {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Cron(cronExpr).Do(func() {}); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
