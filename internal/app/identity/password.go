package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/fardannozami/dailyreport/internal/domain"
)

const (
	tempPasswordLength  = 8
	tempPasswordCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// PasswordHasher is the salted one-way hash used for stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type BcryptHasher struct {
	Cost int
}

// Hash returns domain.ErrPasswordTooLong past domain.MaxPasswordBytes.
func (h BcryptHasher) Hash(password string) (string, error) {
	if len(password) > domain.MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// TemporaryPassword returns an 8 character lowercase alphanumeric password.
func TemporaryPassword() (string, error) {
	max := big.NewInt(int64(len(tempPasswordCharset)))
	b := make([]byte, tempPasswordLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate temporary password: %w", err)
		}
		b[i] = tempPasswordCharset[n.Int64()]
	}
	return string(b), nil
}

// PasswordNotifier delivers a temporary password to its owner out of band.
type PasswordNotifier interface {
	NotifyTemporaryPassword(ctx context.Context, user domain.User, password string) error
}

// LogNotifier writes the temporary password to the log. It is the fallback
// when no messaging channel is configured.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (n LogNotifier) NotifyTemporaryPassword(ctx context.Context, user domain.User, password string) error {
	n.Log.WithField("user_id", user.ID).Warnf("Event ID: TEMPORARY_PASSWORD_ISSUED, Description: temporary password for %s is %s", user.Email, password)
	return nil
}

// NotifierFunc adapts a function to PasswordNotifier.
type NotifierFunc func(ctx context.Context, user domain.User, password string) error

func (f NotifierFunc) NotifyTemporaryPassword(ctx context.Context, user domain.User, password string) error {
	return f(ctx, user, password)
}
