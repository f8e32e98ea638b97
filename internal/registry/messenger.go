package registry

import "context"

// Inbound is one user message delivered by the messaging transport.
type Inbound struct {
	ChatID int64
	UserID int64
	Text   string
}

// OnMessage handles one inbound message and returns the reply text.
// An empty reply means nothing is sent back.
type OnMessage func(ctx context.Context, msg Inbound) string

// Handle is the live, in-memory listener for one bot token.
type Handle interface {
	// Stop terminates the listener. In-flight replies are not cancelled.
	Stop() error
}

// Messenger starts bot listeners on the messaging transport. Implementations
// must guarantee at most one active listener per token at the transport level;
// the registry enforces the same invariant on its own map.
type Messenger interface {
	StartListener(ctx context.Context, token string, onMessage OnMessage) (Handle, error)
}
