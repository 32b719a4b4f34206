package providers

import "context"

// MessageGateway is the external messaging channel used to push
// notifications to residents. It must be treated as unreliable: a failed
// Send is an ordinary per-recipient outcome, never a batch-fatal error.
type MessageGateway interface {
	// Send delivers a text message to an external recipient identifier
	Send(ctx context.Context, chatID, text string) error

	// Ping verifies connectivity with the gateway
	Ping(ctx context.Context) error
}
