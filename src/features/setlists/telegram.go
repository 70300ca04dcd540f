package setlists

import (
	"context"
	"fmt"
	"strings"

	"github.com/formantjeff/setlist/src/setlist"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the setlists feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the setlists feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes setlist-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "setlists":
		return h.handleSetlists(bot, chatID, args)
	case "show":
		return h.handleShow(bot, chatID, args)
	default:
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown setlist command. Use /setlists <band-id> or /show <setlist-id>"))
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"setlists": "List a band's setlists (/setlists <band-id>)",
		"show":     "Show a setlist with its songs (/show <setlist-id>)",
	}
}

// HandleCallback handles callback queries for this feature (setlists has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleSetlists lists a band's setlists
func (h *TelegramHandler) handleSetlists(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	bandID := strings.TrimSpace(args)
	if bandID == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Usage: /setlists <band-id>"))
		return nil
	}

	setlists, err := h.service.GetSetlistsByBand(context.Background(), bandID)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Failed to list setlists"))
		return err
	}
	if len(setlists) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "This band has no setlists yet"))
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🎶 *Setlists*\n\n")
	for _, sl := range setlists {
		sb.WriteString(fmt.Sprintf("📋 *%s*\n`%s`\n\n", sl.Name, sl.ID))
	}
	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// handleShow prints a setlist with its songs in order
func (h *TelegramHandler) handleShow(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	setlistID := strings.TrimSpace(args)
	if setlistID == "" {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Usage: /show <setlist-id>"))
		return nil
	}

	sl, err := h.service.GetSetlist(context.Background(), setlistID)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Failed to load setlist"))
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s*\n", sl.Name))
	if sl.Description != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n", sl.Description))
	}
	sb.WriteString(fmt.Sprintf("🕒 Total: `%s`\n\n", setlist.FormatDuration(sl.TotalDuration())))
	if len(sl.Songs) == 0 {
		sb.WriteString("No songs yet")
	}
	for i, song := range sl.Songs {
		line := fmt.Sprintf("%d. *%s*", i+1, song.Name)
		if song.Artist != "" {
			line += fmt.Sprintf(" by %s", song.Artist)
		}
		if song.Duration > 0 {
			line += fmt.Sprintf(" `%s`", setlist.FormatDuration(song.Duration))
		}
		sb.WriteString(line + "\n")
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}
