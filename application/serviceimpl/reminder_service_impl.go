package serviceimpl

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"gofiber-todo/domain/models"
	"gofiber-todo/domain/ports"
	"gofiber-todo/domain/repositories"
	"gofiber-todo/domain/services"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/scheduler"
)

// ReminderJobID id ของ job ใน scheduler
const ReminderJobID = "reminder-digest"

type ReminderServiceImpl struct {
	userRepo  repositories.UserRepository
	taskRepo  repositories.TaskRepository
	notifier  ports.NotifierPort
	events    ports.EventPublisherPort
	scheduler scheduler.EventScheduler
	now       func() time.Time
}

func NewReminderService(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	notifier ports.NotifierPort,
	events ports.EventPublisherPort,
	eventScheduler scheduler.EventScheduler,
) services.ReminderService {
	return &ReminderServiceImpl{
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		notifier:  notifier,
		events:    events,
		scheduler: eventScheduler,
		now:       time.Now,
	}
}

func (s *ReminderServiceImpl) BuildDigest(ctx context.Context, user *models.User, now time.Time) (*services.Digest, error) {
	today := models.StartOfDay(now)

	overdue, err := s.taskRepo.ListByUser(ctx, user.ID, repositories.TaskFilter{
		Scope: repositories.TaskScopeOverdue,
		Today: today,
	})
	if err != nil {
		return nil, err
	}

	dueToday, err := s.taskRepo.ListByUser(ctx, user.ID, repositories.TaskFilter{
		Scope: repositories.TaskScopeDueToday,
		Today: today,
	})
	if err != nil {
		return nil, err
	}

	return &services.Digest{User: user, Overdue: overdue, DueToday: dueToday}, nil
}

func (s *ReminderServiceImpl) SendDailyDigests(ctx context.Context, now time.Time) (int, error) {
	if s.notifier == nil || !s.notifier.IsEnabled() {
		logger.InfoContext(ctx, "Reminder notifier disabled, skipping digests")
		return 0, nil
	}

	users, err := s.userRepo.ListReminderRecipients(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list reminder recipients", "error", err)
		return 0, err
	}

	sent := 0
	for _, user := range users {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if !user.WantsReminders() {
			continue
		}

		digest, err := s.BuildDigest(ctx, user, now)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to build digest", "user_id", user.ID, "error", err)
			continue
		}
		if digest.IsEmpty() {
			continue
		}

		err = s.notifier.SendReminder(ctx, &ports.ReminderMessage{
			ChatID: *user.TelegramChatID,
			Text:   FormatDigest(digest, now),
		})
		if err != nil {
			// user หนึ่งส่งไม่ได้ ไม่หยุดคนอื่น
			logger.WarnContext(ctx, "Failed to send digest", "user_id", user.ID, "error", err)
			continue
		}
		sent++

		publishEvent(ctx, s.events, ports.EventReminderDigest, user.ID, 0, "", map[string]any{
			"overdue":  len(digest.Overdue),
			"dueToday": len(digest.DueToday),
		})
	}

	logger.InfoContext(ctx, "Daily digests sent", "recipients", len(users), "sent", sent)
	return sent, nil
}

func (s *ReminderServiceImpl) Schedule(cronExpr string) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	if err := scheduler.ValidateCronExpression(cronExpr); err != nil {
		return err
	}

	return s.scheduler.AddJob(ReminderJobID, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := s.SendDailyDigests(ctx, s.now()); err != nil {
			logger.Error("Reminder job failed", "error", err)
		}
	})
}

// FormatDigest ข้อความ HTML สำหรับ Telegram
func FormatDigest(digest *services.Digest, now time.Time) string {
	var b strings.Builder

	name := strings.TrimSpace(digest.User.FirstName)
	if name == "" {
		name = digest.User.Username
	}
	b.WriteString(fmt.Sprintf("📋 <b>Daily summary for %s</b>\n", html.EscapeString(name)))
	b.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))

	if len(digest.Overdue) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ <b>Overdue (%d)</b>\n", len(digest.Overdue)))
		for _, task := range digest.Overdue {
			b.WriteString(formatDigestTask(task))
		}
	}

	if len(digest.DueToday) > 0 {
		b.WriteString(fmt.Sprintf("\n⏳ <b>Due today (%d)</b>\n", len(digest.DueToday)))
		for _, task := range digest.DueToday {
			b.WriteString(formatDigestTask(task))
		}
	}

	return strings.TrimSpace(b.String())
}

func formatDigestTask(task *models.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("• %s <i>[%s]</i>", html.EscapeString(strings.TrimSpace(task.Title)), task.Priority.Label()))
	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf(" · %s", task.DueDate.Format("2006-01-02")))
	}
	sb.WriteByte('\n')
	return sb.String()
}
