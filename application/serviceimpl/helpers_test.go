package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gofiber-todo/domain/models"
	"gofiber-todo/domain/ports"
	"gofiber-todo/infrastructure/postgres"
	"gofiber-todo/pkg/scheduler"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Driver:    postgres.DriverSQLite,
		SQLiteDSN: fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name),
		LogLevel:  "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
		Role:     "user",
		IsActive: true,
	}
	if err := postgres.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func strPtr(s string) *string { return &s }

// ========== Fakes ==========

type fakePublisher struct {
	mu     sync.Mutex
	events []*ports.DomainEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event *ports.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fakeCache เก็บเป็น JSON เหมือน Redis จริง
type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	loads   int
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error {
	c.mu.Lock()
	raw, ok := c.data[key]
	c.mu.Unlock()
	if ok {
		return json.Unmarshal(raw, target)
	}

	value, err := getter()
	if err != nil {
		return err
	}
	raw, err = json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.data[key] = raw
	c.loads++
	c.mu.Unlock()
	return json.Unmarshal(raw, target)
}

func (c *fakeCache) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

// brokenCache จำลอง Redis ที่ต่อไม่ได้
type brokenCache struct{}

func (brokenCache) GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error {
	return errors.New("dial tcp: connection refused")
}

func (brokenCache) Invalidate(ctx context.Context, keys ...string) error {
	return errors.New("dial tcp: connection refused")
}

type fakeNotifier struct {
	mu       sync.Mutex
	enabled  bool
	sent     []*ports.ReminderMessage
	failChat int64
}

func (n *fakeNotifier) SendReminder(ctx context.Context, msg *ports.ReminderMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if msg.ChatID == n.failChat {
		return fmt.Errorf("chat %d unreachable", msg.ChatID)
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *fakeNotifier) IsEnabled() bool { return n.enabled }

type fakeScheduler struct {
	jobs map[string]func()
	cron map[string]string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[string]func()), cron: make(map[string]string)}
}

func (s *fakeScheduler) Start()          {}
func (s *fakeScheduler) Stop()           {}
func (s *fakeScheduler) IsRunning() bool { return false }

func (s *fakeScheduler) AddJob(id, cronExpr string, task func()) error {
	if _, ok := s.jobs[id]; ok {
		return fmt.Errorf("job with ID %s already exists", id)
	}
	s.jobs[id] = task
	s.cron[id] = cronExpr
	return nil
}

func (s *fakeScheduler) RemoveJob(id string) error {
	delete(s.jobs, id)
	return nil
}

func (s *fakeScheduler) RunNow(id string) error {
	task, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job with ID %s not found", id)
	}
	task()
	return nil
}

func (s *fakeScheduler) GetJob(id string) (*scheduler.JobInfo, bool) {
	cronExpr, ok := s.cron[id]
	if !ok {
		return nil, false
	}
	return &scheduler.JobInfo{ID: id, CronExpr: cronExpr, IsActive: true}, true
}

func (s *fakeScheduler) ListJobs() map[string]*scheduler.JobInfo {
	out := make(map[string]*scheduler.JobInfo, len(s.cron))
	for id := range s.cron {
		info, _ := s.GetJob(id)
		out[id] = info
	}
	return out
}
