package graphql

import (
	"context"
	"fmt"
	"time"

	"github.com/grovetools/agentchat/internal/chat"
	"github.com/grovetools/core/logging"
	"github.com/sirupsen/logrus"
)

// Executor runs a single query and returns the raw response.
type Executor interface {
	Execute(ctx context.Context, query string) (string, error)
}

// Invoker turns query triggers into result events.
type Invoker struct {
	exec   Executor
	now    func() time.Time
	logger *logrus.Entry
}

// NewInvoker creates an invoker backed by exec.
func NewInvoker(exec Executor) *Invoker {
	return &Invoker{
		exec:   exec,
		now:    time.Now,
		logger: logging.NewLogger("agchat.graphql"),
	}
}

// Func returns the function handed to chat.WithQueryInvoker. Every call
// sends exactly one request and passes one event to sink: the response as
// an AgentGraphQLResult, or the failure as a UserError.
func (i *Invoker) Func(ctx context.Context, sink func(chat.Event)) func(query string) {
	return func(query string) {
		sink(i.Invoke(ctx, query))
	}
}

// Invoke sends query and returns the event describing the outcome.
func (i *Invoker) Invoke(ctx context.Context, query string) chat.Event {
	body, err := i.exec.Execute(ctx, query)
	record := chat.Record{Kind: chat.KindAgentGraphQLResult, Text: body, Timestamp: i.now()}
	if err != nil {
		i.logger.WithError(err).Warn("GraphQL invocation failed")
		record.Kind = chat.KindUserError
		record.Text = fmt.Sprintf("Query failed: %v", err)
	}
	return chat.MustEvent(record)
}
