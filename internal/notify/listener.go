package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-engine/internal/models"
	"github.com/yourusername/valuebet-engine/internal/repository"
	"github.com/yourusername/valuebet-engine/internal/service"
)

const recentBetsLimit = 10

// Listener handles operator commands over Telegram long polling. Only the
// configured chat is answered; updates from any other chat are dropped.
type Listener struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	pipeline *service.Pipeline
	state    *service.WorkerState
	betRepo  repository.BetRepository
	logger   *logrus.Logger
}

// NewListener creates a command listener bound to one operator chat.
func NewListener(bot *tgbotapi.BotAPI, chatID int64, pipeline *service.Pipeline, state *service.WorkerState, betRepo repository.BetRepository, logger *logrus.Logger) *Listener {
	return &Listener{
		bot:      bot,
		chatID:   chatID,
		pipeline: pipeline,
		state:    state,
		betRepo:  betRepo,
		logger:   logger,
	}
}

// Listen polls for updates until the context is cancelled.
func (l *Listener) Listen(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := l.bot.GetUpdatesChan(u)

	l.logger.Info("Telegram command listener started")

	for {
		select {
		case <-ctx.Done():
			l.bot.StopReceivingUpdates()
			l.logger.Info("Telegram command listener stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if update.Message.Chat.ID != l.chatID {
				l.logger.WithField("chat_id", update.Message.Chat.ID).Warn("Ignoring command from unauthorized chat")
				continue
			}
			l.handleCommand(ctx, update.Message)
		}
	}
}

func (l *Listener) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	l.logger.WithField("command", cmd).Info("Handling telegram command")

	switch cmd {
	case "help", "start":
		l.reply(formatHelp())
	case "status":
		l.reply(formatStatus(l.state.Snapshot()))
	case "bets":
		l.handleBets(ctx)
	case "stats":
		l.handleStats(ctx)
	case "run":
		l.handleRun(ctx)
	case "refresh":
		l.handleRefresh(ctx)
	default:
		l.reply("Unknown command. Send /help for the list.")
	}
}

func (l *Listener) handleBets(ctx context.Context) {
	bets, err := l.betRepo.ListRecent(ctx, recentBetsLimit)
	if err != nil {
		l.logger.WithError(err).Error("Failed to list recent bets")
		l.reply("Failed to load recent bets.")
		return
	}
	l.reply(formatRecentBets(bets))
}

func (l *Listener) handleStats(ctx context.Context) {
	stats, err := l.betRepo.AggregateStats(ctx)
	if err != nil {
		l.logger.WithError(err).Error("Failed to aggregate bet stats")
		l.reply("Failed to load stats.")
		return
	}
	l.reply(formatStats(stats))
}

// handleRun kicks off a pipeline pass in the background so the poll loop
// keeps serving other commands. The run guard rejects overlaps.
func (l *Listener) handleRun(ctx context.Context) {
	l.reply("🚀 Starting a pipeline run...")
	go func() {
		report, err := l.pipeline.Run(ctx)
		if errors.Is(err, service.ErrRunInProgress) {
			l.reply("A run is already in progress.")
			return
		}
		if err != nil {
			l.logger.WithError(err).Error("Manual pipeline run failed")
			l.reply("Run failed: " + html.EscapeString(err.Error()))
			return
		}
		l.reply(fmt.Sprintf("✅ Run finished: %d fixtures, %d value bets, %d errors (%.1fs)",
			report.FixturesSeen, len(report.BetsFound), len(report.Errors), report.Duration.Seconds()))
	}()
}

func (l *Listener) handleRefresh(ctx context.Context) {
	l.reply("🔄 Refreshing team strengths...")
	go func() {
		if err := l.pipeline.RefreshStrengths(ctx); err != nil {
			l.logger.WithError(err).Error("Manual strength refresh failed")
			l.reply("Refresh failed: " + html.EscapeString(err.Error()))
			return
		}
		l.reply("✅ Team strengths refreshed.")
	}()
}

func (l *Listener) reply(text string) {
	msg := tgbotapi.NewMessage(l.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := l.bot.Send(msg); err != nil {
		l.logger.WithError(err).Error("Failed to send telegram reply")
	}
}

func formatHelp() string {
	return strings.Join([]string{
		"<b>Commands</b>",
		"/status - worker state and last run",
		"/bets - most recent value bets",
		"/stats - historical performance",
		"/run - trigger a pipeline run now",
		"/refresh - refresh team strength data",
		"/help - this message",
	}, "\n")
}

func formatStatus(snap service.WorkerSnapshot) string {
	var b strings.Builder
	b.WriteString("<b>Worker status</b>\n")
	if snap.Running {
		fmt.Fprintf(&b, "🟢 Run in progress since %s\n", snap.RunStartedAt.Format(time.RFC3339))
	} else {
		b.WriteString("⚪ Idle\n")
	}
	fmt.Fprintf(&b, "Last run: %s\n", formatTimestamp(snap.LastRun))
	fmt.Fprintf(&b, "Last strength refresh: %s\n", formatTimestamp(snap.LastRefresh))
	fmt.Fprintf(&b, "Bets found today: %d", snap.BetsToday)
	return b.String()
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

func formatRecentBets(bets []*models.ValueBet) string {
	if len(bets) == 0 {
		return "No bets recorded yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Last %d bets</b>\n", len(bets))
	for _, bet := range bets {
		status := "⏳"
		if bet.Success != nil {
			if *bet.Success {
				status = "✅"
			} else {
				status = "❌"
			}
		}
		fmt.Fprintf(&b, "%s %s vs %s | %s @ %.2f (+%.1f%%)\n",
			status,
			html.EscapeString(bet.HomeTeam), html.EscapeString(bet.AwayTeam),
			bet.Market, bet.BkOdds, bet.Value*100)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStats(stats *models.BetStats) string {
	var b strings.Builder
	b.WriteString("<b>Performance</b>\n")
	fmt.Fprintf(&b, "Total bets: %d (%d won, %d lost, %d pending)\n",
		stats.Total, stats.Wins, stats.Losses, stats.Pending)
	fmt.Fprintf(&b, "Win rate: %s%%\n", stats.WinRatePct.String())
	fmt.Fprintf(&b, "ROI: %s%%\n", stats.ROIPct.String())
	fmt.Fprintf(&b, "Avg value: %s%%\n", stats.AvgValuePct.String())

	if len(stats.ByLeague) > 0 {
		b.WriteString("\n<b>By league</b>\n")
		for _, lg := range stats.ByLeague {
			fmt.Fprintf(&b, "%s: %d bets, %d won\n",
				html.EscapeString(lg.League), lg.Total, lg.Wins)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
