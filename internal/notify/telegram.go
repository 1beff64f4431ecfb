// Package notify delivers value bets and worker status over Telegram.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-engine/internal/models"
)

// NewBot creates and verifies a Telegram bot API client.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("failed to verify telegram bot: %w", err)
	}
	return bot, nil
}

// TelegramNotifier sends run summaries to a single operator chat.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	topBets int
	logger  *logrus.Logger
}

// NewTelegramNotifier creates a notifier bound to one chat.
func NewTelegramNotifier(bot *tgbotapi.BotAPI, chatID int64, topBets int, logger *logrus.Logger) *TelegramNotifier {
	if topBets <= 0 {
		topBets = 5
	}
	return &TelegramNotifier{
		bot:     bot,
		chatID:  chatID,
		topBets: topBets,
		logger:  logger,
	}
}

// Bot exposes the underlying API client so the command listener can share
// one long-polling connection.
func (n *TelegramNotifier) Bot() *tgbotapi.BotAPI {
	return n.bot
}

// NotifyRunSummary sends the run's top bets as individual messages framed by
// a header and a disclaimer footer, then an error digest if anything failed.
// Bets arrive already sorted by value descending.
func (n *TelegramNotifier) NotifyRunSummary(ctx context.Context, bets []*models.ValueBet, errs []string) error {
	if len(bets) == 0 {
		if err := n.send(ctx, formatNoBets()); err != nil {
			return err
		}
		return n.sendErrorDigest(ctx, errs)
	}

	top := bets
	if len(top) > n.topBets {
		top = top[:n.topBets]
	}

	if err := n.send(ctx, formatHeader(len(top))); err != nil {
		return err
	}
	for _, bet := range top {
		if err := n.send(ctx, FormatBetMessage(bet)); err != nil {
			return err
		}
	}
	if err := n.send(ctx, formatFooter()); err != nil {
		return err
	}

	return n.sendErrorDigest(ctx, errs)
}

func (n *TelegramNotifier) sendErrorDigest(ctx context.Context, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return n.send(ctx, FormatErrorDigest(errs))
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// FormatBetMessage renders one value bet as a Telegram HTML message.
func FormatBetMessage(bet *models.ValueBet) string {
	valuePct := bet.Value * 100
	probPct := bet.Probability * 100

	emoji := "🟡"
	if valuePct >= 10 {
		emoji = "🟢"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>VALUE BET</b>\n\n", emoji)
	fmt.Fprintf(&b, "⚽ <b>%s vs %s</b>\n", html.EscapeString(bet.HomeTeam), html.EscapeString(bet.AwayTeam))
	fmt.Fprintf(&b, "📅 %s | %s\n\n", bet.MatchDate, html.EscapeString(bet.League))
	fmt.Fprintf(&b, "📊 <b>Market:</b> %s\n", bet.Market)
	fmt.Fprintf(&b, "🏦 <b>Bookmaker:</b> %s\n", html.EscapeString(bet.Bookmaker))
	fmt.Fprintf(&b, "💰 <b>Price:</b> %.2f\n", bet.BkOdds)
	fmt.Fprintf(&b, "🧮 <b>Fair price:</b> %.2f\n", bet.ModelOdds)
	fmt.Fprintf(&b, "📈 <b>Probability:</b> %.1f%%\n", probPct)
	fmt.Fprintf(&b, "✨ <b>Value:</b> +%.1f%%", valuePct)
	return b.String()
}

// FormatErrorDigest renders the run's collected failures.
func FormatErrorDigest(errs []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ <b>Run completed with %d error(s)</b>\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(e))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatHeader(count int) string {
	return fmt.Sprintf("🎯 <b>VALUE BETS OF THE DAY</b> (%d selections)\n%s",
		count, strings.Repeat("─", 30))
}

func formatNoBets() string {
	return "📭 <b>No value bets found today.</b>\nThe hunt continues tomorrow! ⚽"
}

func formatFooter() string {
	return "⚠️ <i>These bets are generated automatically by a statistical model. " +
		"Bet responsibly. Past performance does not guarantee future results.</i>"
}
