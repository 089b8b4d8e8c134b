package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram announces completed purchases to a channel. Strictly best
// effort: a failed announcement is logged and dropped, never surfaced to
// the buyer.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) AnnouncePurchase(chainID string, tokens uint64, signature string) {
	text := fmt.Sprintf("Presale purchase via %s: %d tokens (tx %s)", chainID, tokens, signature)
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		log.Printf("failed to announce purchase: %v", err)
	}
}
