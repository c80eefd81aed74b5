package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gofiber-todo/domain/ports"
	"gofiber-todo/pkg/logger"
)

// Sender ส่วนของ *tgbotapi.BotAPI ที่ใช้ส่งข้อความ
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier - Telegram implementation of NotifierPort
type TelegramNotifier struct {
	bot Sender
}

// NewTelegramNotifier token ว่าง = notifier ที่ปิดอยู่ (ไม่ error)
func NewTelegramNotifier(botToken string) (ports.NotifierPort, error) {
	if botToken == "" {
		logger.Info("Telegram bot token not configured, reminders disabled")
		return &TelegramNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	logger.Info("Telegram bot connected", "username", bot.Self.UserName)
	return &TelegramNotifier{bot: bot}, nil
}

// NewTelegramNotifierWithSender ใช้ sender ที่สร้างไว้แล้ว
func NewTelegramNotifierWithSender(bot Sender) ports.NotifierPort {
	return &TelegramNotifier{bot: bot}
}

// IsEnabled ตรวจสอบว่ามี bot พร้อมส่งหรือไม่
func (n *TelegramNotifier) IsEnabled() bool {
	return n.bot != nil
}

// SendReminder ส่ง digest (HTML) ไปยัง chat ของ user
func (n *TelegramNotifier) SendReminder(ctx context.Context, msg *ports.ReminderMessage) error {
	if !n.IsEnabled() {
		logger.InfoContext(ctx, "Telegram notification disabled, skipping")
		return nil
	}
	if msg == nil || msg.ChatID == 0 {
		return fmt.Errorf("chat id is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	message.ParseMode = tgbotapi.ModeHTML
	message.DisableWebPagePreview = true

	if _, err := n.bot.Send(message); err != nil {
		logger.ErrorContext(ctx, "Failed to send Telegram message", "chat_id", msg.ChatID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Telegram reminder sent", "chat_id", msg.ChatID)
	return nil
}
