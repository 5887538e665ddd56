package transport

import "context"

// Sender delivers an outbound message to a chat. Implementations do not
// guarantee delivery; the engine treats sends as fire-and-forget and never
// rolls back session state on failure.
type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

// InboundMessage is one inbound unit as delivered by the WhatsApp bridge.
// MediaKind is the media mimetype prefix ("audio", "image", ...), empty for
// plain text. MediaPath points at the file the bridge saved locally.
type InboundMessage struct {
	ChatID    string `json:"chat_id"`
	Body      string `json:"body"`
	FromMe    bool   `json:"from_me"`
	MediaKind string `json:"media_kind,omitempty"`
	MediaPath string `json:"media_path,omitempty"`
}
