package invoke

import "context"

// ChatClient produces a completion from a single system/user exchange.
type ChatClient interface {
	Complete(ctx context.Context, model, system, user string, temperature float32, maxTokens int) (string, error)
}
