package wa

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/mdp/qrterminal"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	walog "go.mau.fi/whatsmeow/util/log"
	_ "modernc.org/sqlite"
)

// Handler answers an incoming chat message. An empty reply sends nothing.
type Handler func(ctx context.Context, msg Message) (string, error)

// ReplyOptions makes replies look typed by a person.
type ReplyOptions struct {
	MinDelay   time.Duration
	MaxDelay   time.Duration // 0 = MinDelay is fixed
	ShowTyping bool
}

type Service struct {
	client   *whatsmeow.Client
	dbPath   string
	waLog    walog.Logger
	log      logrus.FieldLogger
	resolver LIDResolver
	groupID  string
	reply    ReplyOptions
	handler  Handler
}

func NewService(dbPath string, waLog walog.Logger, logger logrus.FieldLogger, resolver LIDResolver) *Service {
	return &Service{
		dbPath:   dbPath,
		waLog:    waLog,
		log:      logger,
		resolver: resolver,
	}
}

// OnlyGroup restricts handled messages to one chat JID. Empty accepts every chat.
func (s *Service) OnlyGroup(groupID string) {
	s.groupID = groupID
}

func (s *Service) SetReplyOptions(opts ReplyOptions) {
	s.reply = opts
}

func (s *Service) SetHandler(h Handler) {
	s.handler = h
}

func (s *Service) Initialize(ctx context.Context) error {
	// whatsmeow keeps its own connection to the same database file
	dbAddress := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", s.dbPath)
	container, err := sqlstore.New(ctx, "sqlite", dbAddress, s.waLog.Sub("Database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	var device *store.Device
	if len(devices) > 0 {
		device = devices[0]
	} else {
		device = container.NewDevice()
	}

	s.client = whatsmeow.NewClient(device, s.waLog.Sub("Client"))
	s.client.AddEventHandler(s.onEvent)
	return nil
}

func (s *Service) Connect() error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	if s.client.IsConnected() {
		return nil
	}
	return s.client.Connect()
}

func (s *Service) Disconnect() {
	if s.client != nil {
		s.client.Disconnect()
	}
}

func (s *Service) IsLoggedIn() bool {
	return s.client != nil && s.client.Store.ID != nil
}

// Pair requests a pairing code for phone. The client must be connected.
func (s *Service) Pair(ctx context.Context, phone string) (string, error) {
	if s.IsLoggedIn() {
		return "", fmt.Errorf("already logged in")
	}
	if !s.client.IsConnected() {
		return "", fmt.Errorf("client not connected")
	}
	return s.client.PairPhone(ctx, phone, true, whatsmeow.PairClientChrome, "Chrome (Linux)")
}

// PrintQR connects and prints login QR codes to the terminal until the login
// flow ends. The QR channel must be requested before connecting.
func (s *Service) PrintQR(ctx context.Context) error {
	if s.IsLoggedIn() {
		return nil
	}
	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("get QR channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect for QR: %w", err)
	}

	go func() {
		for evt := range qrChan {
			if evt.Event == "code" {
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
				continue
			}
			s.log.Infof("Event ID: WA_LOGIN_EVENT, Description: %s", evt.Event)
		}
	}()
	return nil
}

// SendText sends a plain text message to a chat JID such as "123@g.us" or "628123@s.whatsapp.net".
func (s *Service) SendText(ctx context.Context, chat, text string) error {
	jid, err := types.ParseJID(chat)
	if err != nil {
		return fmt.Errorf("parse chat %q: %w", chat, err)
	}
	return s.send(ctx, jid, text)
}

func (s *Service) send(ctx context.Context, jid types.JID, text string) error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	_, err := s.client.SendMessage(ctx, jid, &waE2E.Message{Conversation: &text})
	return err
}

func (s *Service) onEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		if s.handler != nil {
			go s.handleMessage(context.Background(), v)
		}
	case *events.Connected:
		s.log.Infof("Event ID: WA_CONNECTED, Description: connected to WhatsApp")
	case *events.LoggedOut:
		s.log.Warnf("Event ID: WA_LOGGED_OUT, Description: device was logged out")
	}
}

func (s *Service) handleMessage(ctx context.Context, evt *events.Message) {
	if evt.Info.IsFromMe {
		return
	}
	if s.groupID != "" && evt.Info.Chat.String() != s.groupID {
		return
	}

	msg := Message{
		Chat:     evt.Info.Chat.String(),
		Sender:   SenderID(ctx, evt.Info.Sender, s.resolver),
		PushName: evt.Info.PushName,
		Text:     MessageText(evt.Message),
	}
	if msg.PushName == "" {
		msg.PushName = "Unknown"
	}
	if msg.Text == "" {
		return
	}

	response, err := s.handler(ctx, msg)
	if err != nil {
		s.log.Errorf("Event ID: WA_HANDLE_FAILED, Description: message from %s: %v", msg.Sender, err)
		return
	}
	if response == "" {
		return
	}

	s.pause(ctx, evt.Info.Chat)
	if err := s.send(ctx, evt.Info.Chat, response); err != nil {
		s.log.Errorf("Event ID: WA_SEND_FAILED, Description: reply to %s: %v", msg.Chat, err)
	}
}

// pause waits the configured reply delay, showing the typing indicator when enabled.
func (s *Service) pause(ctx context.Context, chat types.JID) {
	delay := s.reply.MinDelay
	if s.reply.MaxDelay > s.reply.MinDelay {
		delay += time.Duration(rand.Int63n(int64(s.reply.MaxDelay - s.reply.MinDelay + 1)))
	}
	if delay <= 0 {
		return
	}

	if s.reply.ShowTyping {
		_ = s.client.SendChatPresence(ctx, chat, types.ChatPresenceComposing, types.ChatPresenceMediaText)
		defer func() {
			_ = s.client.SendChatPresence(ctx, chat, types.ChatPresencePaused, types.ChatPresenceMediaText)
		}()
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
