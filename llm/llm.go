// Package llm provides the reasoning-step capability used by the context
// engine: complete(system, messages) -> text. Output is untrusted free text;
// callers validate it.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrEmptyResponse is returned when a provider answers without any choice or
// candidate to read text from.
var ErrEmptyResponse = errors.New("llm: empty response")

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation sent after the system prompt.
type Message struct {
	Role    Role
	Content string
}

// UserMessage is a convenience constructor for a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Completer is the reasoning-step capability.
type Completer interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system string, messages []Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	return f(ctx, system, messages)
}

// loggingCompleter records request size and latency of every call.
type loggingCompleter struct {
	next   Completer
	name   string
	logger *slog.Logger
}

// WithLogging wraps c so each call is logged under name.
func WithLogging(c Completer, name string, logger *slog.Logger) Completer {
	return &loggingCompleter{next: c, name: name, logger: logger}
}

func (l *loggingCompleter) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	start := time.Now()
	requestBytes := len(system)
	for _, m := range messages {
		requestBytes += len(m.Content)
	}

	text, err := l.next.Complete(ctx, system, messages)
	elapsed := time.Since(start)
	if err != nil {
		l.logger.Error("llm call failed", "provider", l.name, "requestBytes", requestBytes, "elapsed", elapsed, "error", err)
		return "", err
	}
	l.logger.Info("llm call", "provider", l.name, "requestBytes", requestBytes, "responseBytes", len(text), "elapsed", elapsed)
	return text, nil
}
