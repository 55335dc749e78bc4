// Package chat ties a session's conversation to the completion client: one
// user submission becomes exactly one user turn followed by exactly one
// assistant turn.
package chat

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/talktodo/pkg/completion"
	"github.com/papercomputeco/talktodo/pkg/conversation"
	"github.com/papercomputeco/talktodo/pkg/llm"
)

// ErrorPrefix starts the content of every assistant turn that reports a
// failed completion.
const ErrorPrefix = "An error occurred: "

// Completer returns the next assistant message for a history.
type Completer interface {
	Complete(ctx context.Context, history []llm.Turn) (string, error)
}

// Service runs submissions. It holds no conversation state of its own; every
// call is handed the session's store.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// NewService creates a Service backed by completer.
func NewService(completer Completer, logger *zap.Logger) *Service {
	return &Service{
		completer: completer,
		logger:    logger,
	}
}

// Submit appends text as a user turn, asks the completer for a reply to the
// whole history and appends the reply as an assistant turn. A failed
// completion is appended as an assistant turn starting with ErrorPrefix, so
// Submit always grows the store by exactly two turns. The appended assistant
// turn is returned.
func (s *Service) Submit(ctx context.Context, store *conversation.Store, text string) llm.Turn {
	unlock := store.LockTurn()
	defer unlock()

	startTime := time.Now()
	store.Append(llm.UserTurn(text))
	history := store.All()

	var reply llm.Turn
	content, err := s.completer.Complete(ctx, history)
	if err != nil {
		s.logger.Warn("completion failed",
			zap.Int("history_len", len(history)),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		reply = llm.AssistantTurn(ErrorPrefix + Describe(err))
	} else {
		s.logger.Debug("completion succeeded",
			zap.Int("history_len", len(history)),
			zap.String("content_preview", truncate(content, 100)),
			zap.Duration("duration", time.Since(startTime)),
		)
		reply = llm.AssistantTurn(content)
	}

	store.Append(reply)
	return reply
}

// Describe maps a completion failure to the text shown to the user.
func Describe(err error) string {
	var failed completion.ErrRequestFailed
	var malformed completion.ErrMalformedResponse

	switch {
	case errors.As(err, &failed):
		return failed.Message
	case errors.As(err, &malformed):
		return malformed.Error()
	default:
		return err.Error()
	}
}
