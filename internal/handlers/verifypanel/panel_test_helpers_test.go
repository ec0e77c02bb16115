package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/verifybot/internal/bot"
	"github.com/iamwavecut/verifybot/internal/db"
	"github.com/iamwavecut/verifybot/internal/db/sqlite"
	"github.com/iamwavecut/verifybot/internal/pending"
)

const testAdminID int64 = 100

type senderStub struct {
	mu       sync.Mutex
	sent     []api.Chattable
	requests []api.Chattable
	editErr  error
	nextID   int
}

func (s *senderStub) Send(c api.Chattable) (api.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	if _, ok := c.(api.EditMessageTextConfig); ok && s.editErr != nil {
		return api.Message{}, s.editErr
	}
	s.nextID++
	return api.Message{MessageID: s.nextID}, nil
}

func (s *senderStub) Request(c api.Chattable) (*api.APIResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, c)
	return &api.APIResponse{Ok: true}, nil
}

func (s *senderStub) messages() []api.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []api.MessageConfig
	for _, c := range s.sent {
		if msg, ok := c.(api.MessageConfig); ok {
			out = append(out, msg)
		}
	}
	return out
}

func (s *senderStub) edits() []api.EditMessageTextConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []api.EditMessageTextConfig
	for _, c := range s.sent {
		if edit, ok := c.(api.EditMessageTextConfig); ok {
			out = append(out, edit)
		}
	}
	return out
}

func (s *senderStub) callbacks() []api.CallbackConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []api.CallbackConfig
	for _, c := range s.requests {
		if cb, ok := c.(api.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

func (s *senderStub) deletes() []api.DeleteMessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []api.DeleteMessageConfig
	for _, c := range s.requests {
		if del, ok := c.(api.DeleteMessageConfig); ok {
			out = append(out, del)
		}
	}
	return out
}

type serviceStub struct {
	sender *senderStub
	db     db.Client
	admins []int64
}

var _ bot.Service = (*serviceStub)(nil)

func (s *serviceStub) GetBot() bot.Sender { return s.sender }
func (s *serviceStub) GetDB() db.Client   { return s.db }
func (s *serviceStub) GetLanguage() string {
	return "en"
}

func (s *serviceStub) IsAdmin(userID int64) bool {
	for _, id := range s.admins {
		if id == userID {
			return true
		}
	}
	return false
}

type failingStore struct {
	verifyStore
	err error
}

func (s failingStore) GetVerifySettings(context.Context) (*db.VerifySettings, error) {
	return nil, s.err
}

var errStoreDown = errors.New("store is down")

type panelFixture struct {
	panel   *VerifyPanel
	sender  *senderStub
	db      db.Client
	pending *pending.MemoryStore
}

func newPanelFixture(t *testing.T) *panelFixture {
	t.Helper()

	client, err := sqlite.NewSQLiteClient(context.Background(), t.TempDir(), "test.db")
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sender := &senderStub{}
	store := pending.NewMemoryStore(0)
	svc := &serviceStub{sender: sender, db: client, admins: []int64{testAdminID}}
	return &panelFixture{
		panel:   NewVerifyPanel(svc, store),
		sender:  sender,
		db:      client,
		pending: store,
	}
}

func (f *panelFixture) handle(t *testing.T, u *api.Update) bool {
	t.Helper()
	proceed, err := f.panel.Handle(context.Background(), u, u.FromChat(), u.SentFrom())
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	return proceed
}

func (f *panelFixture) settings(t *testing.T) *db.VerifySettings {
	t.Helper()
	settings, err := f.db.GetVerifySettings(context.Background())
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	return settings
}

func privateText(userID int64, text string) *api.Update {
	return &api.Update{
		Message: &api.Message{
			MessageID: 1,
			From:      &api.User{ID: userID},
			Chat:      api.Chat{ID: userID, Type: "private"},
			Date:      int(time.Now().Unix()),
			Text:      text,
		},
	}
}

func privateCommand(userID int64, command string) *api.Update {
	u := privateText(userID, command)
	u.Message.Entities = []api.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	return u
}

func panelCallback(userID int64, data string) *api.Update {
	return &api.Update{
		CallbackQuery: &api.CallbackQuery{
			ID:   "cb-1",
			From: &api.User{ID: userID},
			Message: &api.Message{
				MessageID: 42,
				Chat:      api.Chat{ID: userID, Type: "private"},
			},
			Data: data,
		},
	}
}

func callbackData(button api.InlineKeyboardButton) string {
	if button.CallbackData == nil {
		return ""
	}
	return *button.CallbackData
}
