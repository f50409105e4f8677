// Package channels defines the messaging seam between chat transports
// and the mention router.
package channels

import (
	"context"
	"time"
)

// EventMention is the only inbound event kind the system subscribes to.
const EventMention = "mention"

// InboundMessage is one acknowledged, cleaned event from a transport.
// It lives only until the router has dispatched it; nothing persists it.
type InboundMessage struct {
	ChannelID  string
	UserID     string
	Text       string
	Kind       string
	ReceivedAt time.Time
}

// Poster sends plain text back to a channel.
type Poster interface {
	Post(ctx context.Context, channelID, text string) error
}
