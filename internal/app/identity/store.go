package identity

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fardannozami/dailyreport/internal/app/persist"
	"github.com/fardannozami/dailyreport/internal/domain"
)

const (
	StorageKey     = "auth-storage"
	StorageVersion = 1

	avatarBaseURL = "https://ui-avatars.com/api/"
)

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
	Phone      string
}

// state is the persisted shape of the store.
type state struct {
	User  *domain.User        `json:"user"`
	Users []domain.StoredUser `json:"users"`
}

// Store owns the registered accounts and the currently authenticated user.
type Store struct {
	mu       sync.RWMutex
	users    []domain.StoredUser
	current  *domain.User
	repo     domain.SnapshotRepository
	hasher   PasswordHasher
	notifier PasswordNotifier
	log      logrus.FieldLogger
	now      func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithNotifier(n PasswordNotifier) Option {
	return func(s *Store) { s.notifier = n }
}

func NewStore(repo domain.SnapshotRepository, hasher PasswordHasher, logger logrus.FieldLogger, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		hasher: hasher,
		log:    logger,
		now:    time.Now,
	}
	s.notifier = LogNotifier{Log: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the persisted accounts and session. A missing snapshot leaves the store empty.
func (s *Store) Load(ctx context.Context) error {
	var st state
	found, err := persist.Load(ctx, s.repo, StorageKey, StorageVersion, &st)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !found {
		return nil
	}
	s.users = st.Users
	s.current = st.User
	s.log.Infof("Event ID: IDENTITY_LOADED, Description: restored %d users", len(s.users))
	return nil
}

func (s *Store) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByEmail(in.Email) >= 0 {
		return domain.User{}, domain.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	stored := domain.StoredUser{
		User: domain.User{
			ID:         uuid.NewString(),
			Name:       in.Name,
			Email:      in.Email,
			Role:       in.Role,
			Department: in.Department,
			Avatar:     AvatarURL(in.Name),
			Phone:      in.Phone,
			CreatedAt:  s.now(),
		},
		PasswordHash: hash,
	}
	s.users = append(s.users, stored)
	s.save(ctx)

	s.log.Infof("Event ID: USER_REGISTERED, Description: registered user %s with role %s", stored.ID, stored.Role)
	return stored.Public(), nil
}

func (s *Store) Login(ctx context.Context, email, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByEmail(email)
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err := s.hasher.Compare(s.users[i].PasswordHash, password); err != nil {
		s.log.Warnf("Event ID: LOGIN_FAILED, Description: invalid password for user %s", s.users[i].ID)
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user := s.users[i].Public()
	s.current = &user
	s.save(ctx)
	return user, nil
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.save(ctx)
}

func (s *Store) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return domain.User{}, false
	}
	return *s.current, true
}

// ResetPassword replaces the password with a random temporary one and hands the
// plain value to the notifier. The current session is left alone.
func (s *Store) ResetPassword(ctx context.Context, email string) error {
	s.mu.Lock()
	i := s.indexByEmail(email)
	if i < 0 {
		s.mu.Unlock()
		return domain.ErrUserNotFound
	}

	temp, err := TemporaryPassword()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	hash, err := s.hasher.Hash(temp)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("hash password: %w", err)
	}
	s.users[i].PasswordHash = hash
	user := s.users[i].Public()
	s.save(ctx)
	s.mu.Unlock()

	if err := s.notifier.NotifyTemporaryPassword(ctx, user, temp); err != nil {
		s.log.Errorf("Event ID: RESET_NOTIFY_FAILED, Description: could not deliver temporary password to user %s: %v", user.ID, err)
	}
	return nil
}

// UpdatePassword replaces the password after checking currentPassword, which may be
// the temporary password issued by ResetPassword.
func (s *Store) UpdatePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByEmail(email)
	if i < 0 {
		return domain.ErrUserNotFound
	}
	if err := s.hasher.Compare(s.users[i].PasswordHash, currentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	s.users[i].PasswordHash = hash
	s.save(ctx)

	s.log.Infof("Event ID: PASSWORD_UPDATED, Description: password updated for user %s", s.users[i].ID)
	return nil
}

// Users returns the public view of every account in registration order.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Public()
	}
	return out
}

func (s *Store) FindByID(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// FindByPhone matches on digits only, so "+62 812-3456" and "628123456" are the same number.
func (s *Store) FindByPhone(phone string) (domain.User, error) {
	want := digits(phone)
	if want == "" {
		return domain.User{}, domain.ErrUserNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if digits(u.Phone) == want {
			return u.Public(), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) indexByEmail(email string) int {
	for i, u := range s.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

// save must be called with s.mu held.
func (s *Store) save(ctx context.Context) {
	st := state{User: s.current, Users: s.users}
	if err := persist.Save(ctx, s.repo, StorageKey, StorageVersion, st); err != nil {
		s.log.Errorf("Event ID: IDENTITY_SAVE_FAILED, Description: %v", err)
	}
}

// AvatarURL derives the default avatar from the display name, percent-encoding
// spaces as %20 the way encodeURIComponent does.
func AvatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return avatarBaseURL + "?name=" + escaped + "&background=random"
}

func digits(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b = append(b, s[i])
		}
	}
	return string(b)
}
