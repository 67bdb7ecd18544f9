package queue

import (
	"log/slog"

	"github.com/samber/do"
)

const bufferSize = 64

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	queue chan Message
}

type Message struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		queue: make(chan Message, bufferSize),
	}, nil
}

func (s *Service) Add(msg Message) {
	defer func() {
		// Add may race with Shutdown closing the channel
		if r := recover(); r != nil {

		}
	}()

	select {
	case s.queue <- msg:
	default:
		slog.Warn("message queue is full", "user_id", msg.UserID)
	}
}

func (s *Service) Channel() <-chan Message {
	return s.queue
}

func (s *Service) Shutdown() error {
	close(s.queue)

	return nil
}
