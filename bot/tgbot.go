// Package bot posts reunion notifications to the organizers' Telegram chat:
// one message per new registration, plus ERROR-level log records mirrored
// by lib/logger.TelegramHandler. Delivery failures are logged and never
// affect the registration that triggered them.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"reunion/entity"
	"reunion/lib/sl"
)

type TgBot struct {
	log    *slog.Logger
	api    *tgbotapi.Bot
	chatId int64
}

func NewTgBot(apiKey string, chatId int64, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &TgBot{
		log:    log.With(sl.Module("tgbot")),
		api:    api,
		chatId: chatId,
	}, nil
}

// SendMessage delivers a markdown message to the organizers' chat.
func (t *TgBot) SendMessage(msg string) {
	_, err := t.api.SendMessage(t.chatId, msg, &tgbotapi.SendMessageOpts{
		ParseMode: "Markdown",
	})
	if err != nil {
		t.log.Error("send message", sl.Err(err))
	}
}

// SendMessageWithLevel prefixes the message with a severity marker.
// Used by the slog handler that mirrors log records to the chat.
func (t *TgBot) SendMessageWithLevel(msg string, level slog.Level) {
	marker := "ℹ️"
	switch {
	case level >= slog.LevelError:
		marker = "🔴"
	case level >= slog.LevelWarn:
		marker = "⚠️"
	}
	t.SendMessage(fmt.Sprintf("%s %s", marker, msg))
}

// RegistrationCreated posts a short alert for a new signup.
// Satisfies the core notifier interface.
func (t *TgBot) RegistrationCreated(_ context.Context, reg *entity.Registration) error {
	msg := fmt.Sprintf("🎓 *New registration*\n*Name:* %s\n*Branch:* %s\n*From:* %s, %s\n*Code:* `%s`",
		Sanitize(reg.FullName),
		Sanitize(reg.Branch),
		Sanitize(reg.City),
		Sanitize(reg.Country),
		reg.ReferralCode,
	)
	if reg.ReferralCodeUsed != "" {
		msg += fmt.Sprintf("\n*Referred by:* `%s`", Sanitize(reg.ReferralCodeUsed))
	}
	t.SendMessage(msg)
	return nil
}

// Sanitize escapes characters that break Telegram markdown parsing.
func Sanitize(input string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"`", "\\`",
		"[", "\\[",
	)
	return replacer.Replace(input)
}
