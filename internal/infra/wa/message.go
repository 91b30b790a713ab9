package wa

import (
	"context"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
)

// Message is an incoming chat message reduced to what the command handler needs.
type Message struct {
	Chat     string
	Sender   string // phone number digits when known
	PushName string
	Text     string
}

type LIDResolver interface {
	ResolveLIDToPhone(ctx context.Context, lid string) string
}

// MessageText returns the text of a plain or extended text message.
func MessageText(m *waE2E.Message) string {
	if m == nil {
		return ""
	}
	if m.Conversation != nil {
		return *m.Conversation
	}
	if ext := m.GetExtendedTextMessage(); ext != nil {
		return ext.GetText()
	}
	return ""
}

// SenderID maps a sender JID to a phone number. Hidden-user LIDs are looked up through
// resolver, which falls back to the LID itself.
func SenderID(ctx context.Context, jid types.JID, resolver LIDResolver) string {
	isLID := jid.Server == types.HiddenUserServer || (jid.Server == types.DefaultUserServer && len(jid.User) > 15)
	if isLID && resolver != nil {
		return resolver.ResolveLIDToPhone(ctx, jid.User)
	}
	return jid.User
}
