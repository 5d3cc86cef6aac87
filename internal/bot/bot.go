// Package bot exposes a task session over a private Telegram chat.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"duke/internal/model"
	"duke/internal/parser"
	"duke/internal/service"
	"duke/internal/ui"
)

const (
	cbDonePrefix   = "done:"
	cbDeletePrefix = "delete:"
)

const (
	menuLabelList      = "📋 List"
	menuLabelReminders = "⏰ Reminders"
	menuLabelHelp      = "ℹ️ Help"

	// Telegram rejects keyboards with too many buttons.
	maxKeyboardTasks = 20
)

const helpText = "Send commands the same way as in the console:\n" +
	"• todo <description>\n" +
	"• deadline <description> /by YYYY-MM-DD\n" +
	"• event <description> /at YYYY-MM-DD\n" +
	"• list\n" +
	"• find <keyword>\n" +
	"• done <number>\n" +
	"• delete <number>\n\n" +
	"/remind shows what is due soon."

// Bot serves a single owner. The session is shared with the reminder job, so all access goes through mu.
type Bot struct {
	api       *tgbotapi.BotAPI
	session   *service.Session
	reminders *service.ReminderService
	ownerID   int64
	mu        sync.Mutex
}

func New(token string, ownerID int64, session *service.Session, reminders *service.ReminderService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.WithField("account", api.Self.UserName).Info("bot authorized")

	return &Bot{
		api:       api,
		session:   session,
		reminders: reminders,
		ownerID:   ownerID,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.WithError(err).Error("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.WithError(err).Error("handle message")
			}
		}
	}

	return nil
}

// SendReminder pushes the daily summary to the owner.
func (b *Bot) SendReminder(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	text := b.reminders.DailySummary(time.Now())
	b.mu.Unlock()

	log.WithField("owner", b.ownerID).Info("sending reminder")
	return b.sendText(b.ownerID, text)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !isOwner(msg.From.ID, b.ownerID) {
		log.WithField("user", msg.From.ID).Warn("ignoring message from stranger")
		return nil
	}

	if msg.IsCommand() {
		log.WithFields(log.Fields{"command": msg.Command(), "args": msg.CommandArguments()}).Info("command received")
		return b.handleCommand(ctx, msg)
	}

	switch strings.TrimSpace(msg.Text) {
	case "":
		return nil
	case menuLabelList:
		return b.runLine(ctx, msg.Chat.ID, "list")
	case menuLabelReminders:
		return b.handleReminders(msg.Chat.ID)
	case menuLabelHelp:
		return b.sendText(msg.Chat.ID, helpText)
	}
	return b.runLine(ctx, msg.Chat.ID, msg.Text)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.sendText(msg.Chat.ID, chatText(ui.Welcome()))
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	case "remind":
		return b.handleReminders(msg.Chat.ID)
	case "list":
		return b.runLine(ctx, msg.Chat.ID, "list")
	default:
		return b.sendText(msg.Chat.ID, "Unsupported command. Try /help.")
	}
}

func (b *Bot) handleReminders(chatID int64) error {
	b.mu.Lock()
	text := b.reminders.DailySummary(time.Now())
	b.mu.Unlock()
	return b.sendText(chatID, text)
}

// runLine feeds one line to the session and replies. Listings get done/delete buttons.
func (b *Bot) runLine(ctx context.Context, chatID int64, line string) error {
	b.mu.Lock()
	reply := b.session.Handle(ctx, line)
	var entries []model.Entry
	if parser.ClassifyCommand(line) == parser.CommandList {
		entries = b.session.List().List()
	}
	b.mu.Unlock()

	msg := tgbotapi.NewMessage(chatID, chatText(reply.Text))
	if keyboard, ok := taskKeyboard(entries); ok {
		msg.ReplyMarkup = keyboard
	} else {
		msg.ReplyMarkup = mainMenuKeyboard()
	}
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.WithError(err).Warn("callback ack")
	}
	if !isOwner(cb.From.ID, b.ownerID) {
		return nil
	}

	var keyword, prefix string
	switch {
	case strings.HasPrefix(cb.Data, cbDonePrefix):
		keyword, prefix = "done", cbDonePrefix
	case strings.HasPrefix(cb.Data, cbDeletePrefix):
		keyword, prefix = "delete", cbDeletePrefix
	default:
		return nil
	}
	number, err := parseTaskNumber(cb.Data, prefix)
	if err != nil {
		return nil
	}
	log.WithFields(log.Fields{"action": keyword, "number": number}).Info("callback received")

	// Numbers on the old keyboard go stale once the list changes.
	chatID := cb.Message.Chat.ID
	stale := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := b.api.Request(stale); err != nil {
		log.WithError(err).Warn("clear keyboard")
	}

	if err := b.runLine(ctx, chatID, fmt.Sprintf("%s %d", keyword, number)); err != nil {
		return err
	}
	return b.runLine(ctx, chatID, "list")
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func isOwner(userID, ownerID int64) bool {
	return ownerID != 0 && userID == ownerID
}

func parseTaskNumber(data, prefix string) (int, error) {
	raw := strings.TrimPrefix(data, prefix)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("task number %d out of range", n)
	}
	return n, nil
}

// taskKeyboard offers done and delete buttons for the first tasks of a listing.
func taskKeyboard(entries []model.Entry) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(entries) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	if len(entries) > maxKeyboardTasks {
		entries = entries[:maxKeyboardTasks]
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entries))
	for _, entry := range entries {
		n := strconv.Itoa(entry.Number)
		var row []tgbotapi.InlineKeyboardButton
		if !entry.Task.IsDone() {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("✅ "+n, cbDonePrefix+n))
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("🗑 "+n, cbDeletePrefix+n))
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelList),
			tgbotapi.NewKeyboardButton(menuLabelReminders),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// chatText drops the console indentation and dividers.
func chatText(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimLeft(line, "\t ")
		if strings.Trim(line, "_") == "" && line != "" {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
