package wa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mau.fi/whatsmeow/types"

	"github.com/fardannozami/dailyreport/internal/domain"
)

var ErrNoPhone = errors.New("user has no phone number")

type TextSender interface {
	SendText(ctx context.Context, chat, text string) error
}

// PasswordNotifier delivers temporary passwords to the user's own WhatsApp number.
type PasswordNotifier struct {
	Sender TextSender
}

func (n PasswordNotifier) NotifyTemporaryPassword(ctx context.Context, user domain.User, password string) error {
	phone := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, user.Phone)
	if phone == "" {
		return ErrNoPhone
	}

	jid := types.NewJID(phone, types.DefaultUserServer)
	text := fmt.Sprintf("Hi %s, your temporary password is %s\nLog in and change it right away.", user.Name, password)
	return n.Sender.SendText(ctx, jid.String(), text)
}
