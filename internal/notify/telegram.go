// Package notify delivers buy-signal alerts over Telegram.
package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Accumulator/models"
)

// Telegram sends formatted alerts to a single chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram connects the bot and binds it to the alert chat.
func NewTelegram(botToken string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram notifier connected")
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// Alert sends a buy-signal message. Results without a buy signal are ignored.
func (t *Telegram) Alert(ctx context.Context, result *models.AnalysisResult) error {
	if result == nil || !result.Signals.BuySignal {
		return nil
	}

	msg := tgbotapi.NewMessage(t.chatID, formatAlert(result))
	msg.ParseMode = "Markdown"

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	log.Info().Int("scenario", result.Scenario).Msg("buy signal alert sent")
	return nil
}

func formatAlert(result *models.AnalysisResult) string {
	return fmt.Sprintf(`🚨 *BUY SIGNAL ALERT* 🚨

Scenario: %s
Signal Strength: %.3f
Position Size: %.1f%%
Position Value: $%.2f

Rationale: %s

Timestamp: %s`,
		result.ScenarioName,
		result.Signals.CombinedScore,
		result.TradePlan.PositionSize*100,
		result.TradePlan.PositionValue,
		result.TradePlan.Rationale,
		time.Now().Format("2006-01-02 15:04:05"),
	)
}
