package telegram

import (
	"fmt"
	"log/slog"
	"scoutbot/app/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do"
)

const updateTimeout = 30

var _ do.Shutdownable = (*Client)(nil)

type Client struct {
	cfg *config.Config
	api *tgbotapi.BotAPI
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot api: %w", err)
	}

	slog.Info("Authorized on telegram", "username", api.Self.UserName)

	return &Client{
		cfg: cfg,
		api: api,
	}, nil
}

// Updates starts long polling and returns the inbound update channel.
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout

	return c.api.GetUpdatesChan(u)
}

func (c *Client) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)

	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}

func (c *Client) Shutdown() error {
	c.api.StopReceivingUpdates()

	return nil
}
