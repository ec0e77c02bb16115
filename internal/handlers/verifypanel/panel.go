package handlers

import (
	"context"
	"sync"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/verifybot/internal/bot"
	"github.com/iamwavecut/verifybot/internal/db"
	errs "github.com/iamwavecut/verifybot/internal/errors"
	"github.com/iamwavecut/verifybot/internal/pending"
)

// VerifyPanel serves the private-chat admin panel that configures user verification.
type VerifyPanel struct {
	s       bot.Service
	store   verifyStore
	pending pending.Store

	// settingsMu serializes read-modify-write cycles on the settings record.
	settingsMu sync.Mutex

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

type verifyStore interface {
	GetVerifySettings(ctx context.Context) (*db.VerifySettings, error)
	UpdateVerifySettings(ctx context.Context, settings *db.VerifySettings) error
	ListVerifiedUsers(ctx context.Context) ([]*db.VerifiedUser, error)
	CountVerifiedUsers(ctx context.Context) (int, error)
	RevokeUserVerification(ctx context.Context, userID int64) error
}

type sweeper interface {
	Sweep(ctx context.Context) int
}

func NewVerifyPanel(s bot.Service, pendingStore pending.Store) *VerifyPanel {
	entry := log.WithField("object", "VerifyPanel").WithField("method", "NewVerifyPanel")

	p := &VerifyPanel{
		s:       s,
		store:   s.GetDB(),
		pending: pendingStore,
	}
	entry.Debug("created new verify panel handler")
	return p
}

func (p *VerifyPanel) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	if sw, ok := p.pending.(sweeper); ok {
		p.startPendingSweep(runCtx, sw)
	}
	p.started = true
	return nil
}

func (p *VerifyPanel) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Handle claims panel commands, panel callbacks and the replies of admins with an armed input.
// Every failure is reported to the admin in chat, so the returned error is always nil.
func (p *VerifyPanel) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (proceed bool, err error) {
	entry := p.getLogEntry().WithField("method", "Handle")

	if u == nil {
		return true, nil
	}

	if u.CallbackQuery != nil {
		return p.handlePanelCallback(ctx, u.CallbackQuery, user)
	}

	if u.Message == nil || user == nil || chat == nil {
		entry.Trace("chat or user is nil, proceeding")
		return true, nil
	}
	if !chat.IsPrivate() {
		return true, nil
	}

	msg := u.Message
	if msg.IsCommand() {
		command := msg.Command()
		if command == commandVerifyPanel {
			return p.handlePanelCommand(ctx, msg, chat, user)
		}
		if isReservedCommand(command) {
			return true, nil
		}
	}
	if msg.Text == "" {
		return true, nil
	}
	return p.handlePanelInput(ctx, msg, chat, user)
}

// authorize rejects everyone outside the admin allow-list.
func (p *VerifyPanel) authorize(user *api.User) error {
	if user == nil || !p.s.IsAdmin(user.ID) {
		return errs.ErrUnauthorized
	}
	return nil
}

func isReservedCommand(command string) bool {
	for _, reserved := range reservedCommands {
		if command == reserved {
			return true
		}
	}
	return false
}

func (p *VerifyPanel) getLogEntry() *log.Entry {
	return log.WithField("context", "verify_panel")
}
