package engine

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"scoutbot/app/client/telegram"
	"scoutbot/app/config"
	"scoutbot/app/service/checkpoint"
	"scoutbot/app/service/pipeline"
	"scoutbot/app/service/queue"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const (
	// Telegram rejects messages longer than this, replies are chunked to fit.
	maxMessageLength = 4096

	maxConcurrentRuns = 16

	greetingText   = "Hello! I'm a research assistant. How can I help you today?"
	errorNotice    = "I'm sorry, but I encountered an error while processing your request."
	fallbackNotice = "I wasn't able to come up with a reply to that. Please try rephrasing your request."
)

type Service struct {
	cfg            *config.Config
	telegramClient *telegram.Client
	pipelineSvc    *pipeline.Service
	checkpointSvc  *checkpoint.Store
	queueSvc       *queue.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:            do.MustInvoke[*config.Config](di),
		telegramClient: do.MustInvoke[*telegram.Client](di),
		pipelineSvc:    do.MustInvoke[*pipeline.Service](di),
		checkpointSvc:  do.MustInvoke[*checkpoint.Store](di),
		queueSvc:       do.MustInvoke[*queue.Service](di),
	}, nil
}

func (s *Service) Run(ctx context.Context) {
	go s.pollUpdates(ctx)

	s.dispatch(ctx)
}

func (s *Service) pollUpdates(ctx context.Context) {
	updates := s.telegramClient.Updates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			s.handleUpdate(update)
		}
	}
}

func (s *Service) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if update.Message.IsCommand() {
		if update.Message.Command() == "start" {
			if err := s.telegramClient.Send(update.Message.Chat.ID, greetingText); err != nil {
				slog.Error("Failed to send greeting", "error", err)
			}
		}

		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	s.queueSvc.Add(queue.Message{
		ChatID:   update.Message.Chat.ID,
		UserID:   update.Message.From.ID,
		Username: update.Message.From.UserName,
		Text:     text,
	})
}

func (s *Service) dispatch(ctx context.Context) {
	var g errgroup.Group
	g.SetLimit(maxConcurrentRuns)

	defer func() {
		_ = g.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return
			}

			g.Go(func() error {
				s.processMessage(ctx, msg)
				return nil
			})
		}
	}
}

func (s *Service) processMessage(ctx context.Context, msg queue.Message) {
	start := time.Now()
	sessionID := strconv.FormatInt(msg.UserID, 10)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while processing message",
				"session_id", sessionID,
				"panic", r,
				"telegram", true,
			)

			if sendErr := s.telegramClient.Send(msg.ChatID, errorNotice); sendErr != nil {
				slog.Error("Failed to send error notice", "session_id", sessionID, "error", sendErr)
			}
		}
	}()

	release := s.checkpointSvc.Acquire(sessionID)
	defer release()

	snapshots, err := s.pipelineSvc.Run(ctx, sessionID, msg.Text)
	if err != nil {
		slog.Error("Pipeline run failed",
			"session_id", sessionID,
			"text", msg.Text,
			"error", err,
			"telegram", true,
		)

		if sendErr := s.telegramClient.Send(msg.ChatID, errorNotice); sendErr != nil {
			slog.Error("Failed to send error notice", "session_id", sessionID, "error", sendErr)
		}

		return
	}

	reply := composeReply(snapshots)

	for _, chunk := range splitMessage(reply, maxMessageLength) {
		if err = s.telegramClient.Send(msg.ChatID, chunk); err != nil {
			slog.Error("Failed to send reply chunk",
				"session_id", sessionID,
				"error", err,
				"telegram", true,
			)

			return
		}
	}

	slog.Info("Processed message",
		"session_id", sessionID,
		"username", msg.Username,
		"duration", time.Since(start),
	)
}
