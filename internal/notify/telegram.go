// Package notify pushes the finished weekly digest to a Telegram chat.
// Entirely optional: a nil Notifier is a no-op.
package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fintechweekly/internal/models"
)

type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New returns nil (and no error) when token or chat id are not
// configured.
func New(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Notifier{api: api, chatID: chatID}, nil
}

// SendDigest delivers the digest text. Failures are logged, never
// fatal: notification is a courtesy, not part of the pipeline output.
func (n *Notifier) SendDigest(digest models.Digest) {
	if n == nil {
		return
	}

	text := fmt.Sprintf("AI Fintech Weekly %s（%d 条新闻）\n\n%s", digest.Week, digest.NewsCount, digest.SummaryRaw)
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		log.Printf("Telegram notification failed: %v", err)
	}
}
