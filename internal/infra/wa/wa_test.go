package wa_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"

	"github.com/fardannozami/dailyreport/internal/domain"
	"github.com/fardannozami/dailyreport/internal/infra/wa"
)

type mockResolver struct {
	mapping map[string]string
}

func (m *mockResolver) ResolveLIDToPhone(ctx context.Context, lid string) string {
	if pn, ok := m.mapping[lid]; ok {
		return pn
	}
	return lid
}

type mockSender struct {
	chat string
	text string
}

func (m *mockSender) SendText(ctx context.Context, chat, text string) error {
	m.chat = chat
	m.text = text
	return nil
}

func TestMessageText(t *testing.T) {
	plain := "#report"
	extended := "#recap"

	tests := []struct {
		name string
		msg  *waE2E.Message
		want string
	}{
		{"nil", nil, ""},
		{"conversation", &waE2E.Message{Conversation: &plain}, "#report"},
		{"extended", &waE2E.Message{ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: &extended}}, "#recap"},
		{"other", &waE2E.Message{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wa.MessageText(tt.msg); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSenderID(t *testing.T) {
	resolver := &mockResolver{mapping: map[string]string{"123456789012345678": "628123456789"}}
	ctx := context.Background()

	phone := types.NewJID("628111", types.DefaultUserServer)
	if got := wa.SenderID(ctx, phone, resolver); got != "628111" {
		t.Errorf("Phone JID: expected 628111, got %s", got)
	}

	lid := types.NewJID("123456789012345678", types.HiddenUserServer)
	if got := wa.SenderID(ctx, lid, resolver); got != "628123456789" {
		t.Errorf("LID: expected resolved phone, got %s", got)
	}

	unknown := types.NewJID("999999999999999999", types.HiddenUserServer)
	if got := wa.SenderID(ctx, unknown, resolver); got != "999999999999999999" {
		t.Errorf("Unknown LID should fall back to itself, got %s", got)
	}

	if got := wa.SenderID(ctx, lid, nil); got != "123456789012345678" {
		t.Errorf("Nil resolver should return the LID, got %s", got)
	}
}

func TestPasswordNotifier(t *testing.T) {
	sender := &mockSender{}
	n := wa.PasswordNotifier{Sender: sender}

	user := domain.User{ID: "u1", Name: "Alice", Phone: "+62 812-3456"}
	if err := n.NotifyTemporaryPassword(context.Background(), user, "abc12345"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sender.chat != "628123456@s.whatsapp.net" {
		t.Errorf("Unexpected chat %s", sender.chat)
	}
	if !strings.Contains(sender.text, "abc12345") {
		t.Errorf("Password missing from message %q", sender.text)
	}
}

func TestPasswordNotifier_NoPhone(t *testing.T) {
	n := wa.PasswordNotifier{Sender: &mockSender{}}

	err := n.NotifyTemporaryPassword(context.Background(), domain.User{Name: "Bob"}, "x")
	if !errors.Is(err, wa.ErrNoPhone) {
		t.Errorf("Expected ErrNoPhone, got %v", err)
	}
}
