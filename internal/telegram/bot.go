package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mealwise/internal/app"
	"mealwise/internal/config"
	"mealwise/internal/recipe"
	"mealwise/internal/schedule"
	"mealwise/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const helpText = `*Mealwise*
/week - show the plan
/recipes - list recipes
/assign <day> <slot> <recipe> - plan a meal
/clear [<day> <slot>] - clear one slot or the whole week
/autofill - fill the week at random
/shopping - rebuild the shopping list
/check <n> - tick item n off the list
/export - plain text list
/suggest <preferences> | <ingredients> - recipe ideas
Send a recipe link to clip it.`

// Sender is the part of the Telegram API the bot needs. *tgbotapi.BotAPI implements it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers chat commands against the shared planner.
type Bot struct {
	api      Sender
	app      *app.App
	cfg      *config.Config
	logger   *zap.Logger
	sessions *sessionRegistry
}

// NewBot initializes the Telegram API and sets the webhook when one is configured.
func NewBot(a *app.App, logger *zap.Logger) (*Bot, error) {
	cfg := a.Config()
	if err := cfg.RequireTelegram(); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("Authorized on account", zap.String("username", api.Self.UserName))

	if cfg.TelegramWebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
		if err != nil {
			return nil, fmt.Errorf("failed to build webhook: %w", err)
		}
		resp, err := api.Request(wh)
		if err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
		}
		logger.Info("Webhook set", zap.String("response", resp.Description))
	}

	return NewBotWithSender(api, a, logger), nil
}

// NewBotWithSender builds a bot over an existing sender.
func NewBotWithSender(api Sender, a *app.App, logger *zap.Logger) *Bot {
	return &Bot{
		api:      api,
		app:      a,
		cfg:      a.Config(),
		logger:   logger,
		sessions: newSessionRegistry(a.Planner()),
	}
}

// HandleUpdate processes one update. Messages from users outside the allow list are dropped.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}
	if !b.cfg.IsUserAllowed(msg.From.ID) {
		b.logger.Warn("Unauthorized access attempt",
			zap.Int64("user_id", msg.From.ID),
			zap.String("username", msg.From.UserName))
		return
	}

	if msg.IsCommand() && msg.Command() == "export" {
		b.send(msg.Chat.ID, b.export(msg.Chat.ID), "")
		return
	}
	b.send(msg.Chat.ID, b.reply(ctx, msg), tgbotapi.ModeMarkdown)
}

// CleanupSessions drops shopping sessions of idle chats.
func (b *Bot) CleanupSessions() int {
	return b.sessions.cleanupExpired()
}

func (b *Bot) send(chatID int64, text, parseMode string) {
	if text == "" {
		return
	}
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = parseMode
	if _, err := b.api.Send(m); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message) string {
	text := strings.TrimSpace(msg.Text)
	if !msg.IsCommand() {
		if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
			return b.handleClip(ctx, text)
		}
		return helpText
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		return helpText
	case "week":
		return "📅 *This Week*\n\n" + b.app.Planner().WeekMarkdown()
	case "recipes":
		return "📖 *Recipes*\n\n" + app.FormatRecipes(b.app.Planner().Recipes())
	case "assign":
		return b.handleAssign(ctx, args)
	case "clear":
		return b.handleClear(ctx, args)
	case "autofill":
		return b.handleAutoFill(ctx)
	case "shopping":
		s, _ := b.sessions.get(msg.Chat.ID)
		return "🛒 *Shopping List*\n\n" + app.FormatVisible(s.Refresh())
	case "check":
		return b.handleCheck(msg.Chat.ID, args)
	case "suggest":
		return b.handleSuggest(ctx, args)
	case "metrics":
		return b.handleMetrics(ctx, msg.From.ID)
	default:
		return helpText
	}
}

// export is sent without a parse mode so the list can be copied verbatim.
func (b *Bot) export(chatID int64) string {
	s, fresh := b.sessions.get(chatID)
	if fresh {
		s.Refresh()
	}
	out := shopping.Export(s.Visible())
	if out == "" {
		return "Nothing left to buy."
	}
	return out
}

func (b *Bot) handleClip(ctx context.Context, url string) string {
	r, err := b.app.ClipURL(ctx, url)
	if err != nil {
		b.logger.Error("Error clipping recipe", zap.String("url", url), zap.Error(err))
		return errorText("Error clipping recipe", err)
	}
	return fmt.Sprintf("✅ *Recipe Saved!*\n\n*Name:* %s\n*Ingredients:* %d", app.EscapeMarkdown(r.Name), len(r.Ingredients))
}

func (b *Bot) handleAssign(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "Usage: /assign <day> <lunch|dinner> <recipe name>"
	}
	day, err := schedule.ParseDay(fields[0])
	if err != nil {
		return errorText("Invalid day", err)
	}
	slot, err := schedule.ParseSlot(fields[1])
	if err != nil {
		return errorText("Invalid slot", err)
	}
	r, err := b.app.Planner().ResolveRecipe(strings.Join(fields[2:], " "))
	if err != nil {
		return errorText("Unknown recipe", err)
	}
	if err := b.app.Planner().Assign(day, slot, r.ID); err != nil {
		return errorText("Error assigning recipe", err)
	}
	if err := b.app.Save(ctx); err != nil {
		return errorText("Error saving plan", err)
	}
	return fmt.Sprintf("✅ %s %s: *%s*", day, slot, app.EscapeMarkdown(r.Name))
}

func (b *Bot) handleClear(ctx context.Context, args string) string {
	fields := strings.Fields(args)
	var reply string
	switch len(fields) {
	case 0:
		b.app.Planner().Clear()
		reply = "🧹 Week cleared."
	case 2:
		day, err := schedule.ParseDay(fields[0])
		if err != nil {
			return errorText("Invalid day", err)
		}
		slot, err := schedule.ParseSlot(fields[1])
		if err != nil {
			return errorText("Invalid slot", err)
		}
		if err := b.app.Planner().Assign(day, slot, ""); err != nil {
			return errorText("Error clearing slot", err)
		}
		reply = fmt.Sprintf("🧹 %s %s cleared.", day, slot)
	default:
		return "Usage: /clear [<day> <lunch|dinner>]"
	}
	if err := b.app.Save(ctx); err != nil {
		return errorText("Error saving plan", err)
	}
	return reply
}

func (b *Bot) handleAutoFill(ctx context.Context) string {
	p := b.app.Planner()
	if err := p.AutoFill(); err != nil {
		if errors.Is(err, schedule.ErrNoRecipes) {
			return "Add some recipes first, then try /autofill again."
		}
		return errorText("Error filling the week", err)
	}
	if err := b.app.Save(ctx); err != nil {
		return errorText("Error saving plan", err)
	}
	return "🎲 *Week filled*\n\n" + p.WeekMarkdown()
}

func (b *Bot) handleCheck(chatID int64, args string) string {
	n, err := strconv.Atoi(args)
	if err != nil {
		return "Usage: /check <item number>"
	}
	s, fresh := b.sessions.get(chatID)
	if fresh {
		s.Refresh()
	}
	item, ok := s.ToggleAt(n)
	if !ok {
		return fmt.Sprintf("There is no item %d. Send /shopping to see the list.", n)
	}
	return fmt.Sprintf("☑️ %s\n\n%s", app.EscapeMarkdown(item.Name), app.FormatVisible(s.Visible()))
}

func (b *Bot) handleSuggest(ctx context.Context, args string) string {
	prefs, ingredients, _ := strings.Cut(args, "|")
	names, err := b.app.Suggest(ctx, prefs, ingredients)
	if err != nil {
		return errorText("Error getting suggestions", err)
	}
	if len(names) == 0 {
		return "_No ideas this time._"
	}
	var sb strings.Builder
	sb.WriteString("💡 *Ideas*\n\n")
	for _, n := range names {
		fmt.Fprintf(&sb, "• %s\n", app.EscapeMarkdown(n))
	}
	return sb.String()
}

func (b *Bot) handleMetrics(ctx context.Context, userID int64) string {
	if userID != b.cfg.AdminTelegramID {
		return "⛔ *Access Denied*: Admin only."
	}
	report, err := b.app.Metrics(ctx)
	if err != nil {
		return errorText("Error fetching metrics", err)
	}
	return "📊 *Usage & Health Report*\n\n" + report
}

func errorText(title string, err error) string {
	if errors.Is(err, recipe.ErrNotFound) {
		return fmt.Sprintf("❌ *%s:* no recipe by that name.", title)
	}
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *%s:*\n```\n%s\n```", title, safeErr)
}
