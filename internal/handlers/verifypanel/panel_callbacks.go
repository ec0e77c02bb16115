package handlers

import (
	"context"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/iamwavecut/verifybot/internal/db"
	errs "github.com/iamwavecut/verifybot/internal/errors"
	"github.com/iamwavecut/verifybot/internal/i18n"
	"github.com/iamwavecut/verifybot/internal/observability"
	"github.com/iamwavecut/verifybot/internal/pending"
)

const metricUnknown = "unknown"

// handlePanelCallback dispatches a panel button press. Admin membership is checked on every press.
// Each press is answered exactly once, after its edit has gone through.
func (p *VerifyPanel) handlePanelCallback(ctx context.Context, cq *api.CallbackQuery, user *api.User) (bool, error) {
	if !isPanelCallback(cq.Data) {
		return true, nil
	}
	if user == nil {
		user = cq.From
	}

	ctx, end := observability.StartSpan(ctx, "verify_panel.callback")
	defer end()

	entry := p.getLogEntry().WithFields(log.Fields{
		"method":      "handlePanelCallback",
		"data":        cq.Data,
		"interaction": uuid.New(),
	})
	lang := p.s.GetLanguage()

	action, parseErr := parsePanelAction(cq.Data)
	label := metricUnknown
	if parseErr == nil {
		label = action.metricLabel()
	}

	if err := p.authorize(user); err != nil {
		entry.WithField("error", err.Error()).Debug("panel button denied")
		observability.RecordPanelAction(label, "denied")
		p.answerCallback(ctx, cq.ID, i18n.Get("⛔ Only admins can use this!", lang), true)
		return false, nil
	}
	entry = entry.WithField("user_id", user.ID)

	if parseErr != nil {
		entry.WithField("error", parseErr.Error()).Warn("unknown panel action")
		observability.RecordPanelAction(label, "rejected")
		p.answerCallback(ctx, cq.ID, i18n.Get("Unknown action", lang), false)
		return false, nil
	}
	if cq.Message == nil {
		entry.Warn("callback without message")
		observability.RecordPanelAction(label, "rejected")
		p.answerCallback(ctx, cq.ID, "", false)
		return false, nil
	}

	if err := p.applyPanelAction(ctx, cq, user.ID, action); err != nil {
		entry.WithField("error", err.Error()).Error("failed to handle panel action")
		observability.RecordPanelAction(label, "error")
		p.answerCallback(ctx, cq.ID, fmt.Sprintf(i18n.Get("❌ Error: %s", lang), err.Error()), true)
		return false, nil
	}
	observability.RecordPanelAction(label, "ok")
	return false, nil
}

func (p *VerifyPanel) applyPanelAction(ctx context.Context, cq *api.CallbackQuery, adminID int64, action panelAction) error {
	lang := p.s.GetLanguage()
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID

	switch action.Kind {
	case panelActionToggle:
		settings, err := p.updateSettings(ctx, func(s *db.VerifySettings) { s.Enabled = !s.Enabled })
		if err != nil {
			return err
		}
		observability.Audit("verify_panel.toggle", adminID, zap.Bool("enabled", settings.Enabled))
		state := i18n.Get("OFF", lang) + " " + statusEmoji(false)
		if settings.Enabled {
			state = i18n.Get("ON", lang) + " " + statusEmoji(true)
		}
		if err := p.editPanel(ctx, chatID, messageID); err != nil {
			return err
		}
		p.answerCallback(ctx, cq.ID, fmt.Sprintf(i18n.Get("Verification is now %s", lang), state), true)
		return nil

	case panelActionRefresh:
		if err := p.editPanel(ctx, chatID, messageID); err != nil {
			return err
		}
		p.answerCallback(ctx, cq.ID, "🔄 "+i18n.Get("Refreshed!", lang), false)
		return nil

	case panelActionUsers:
		if err := p.editUsers(ctx, chatID, messageID, action.Page); err != nil {
			return err
		}
		p.answerCallback(ctx, cq.ID, "", false)
		return nil

	case panelActionShortlink, panelActionAPI, panelActionValidity:
		return p.armPendingInput(ctx, cq, adminID, action.Kind)

	case panelActionRevoke:
		if err := p.store.RevokeUserVerification(ctx, action.UserID); err != nil {
			return fmt.Errorf("revoke user %d: %w", action.UserID, err)
		}
		observability.Audit("verify_panel.revoke", adminID, zap.Int64("user_id", action.UserID))
		if err := p.editUsers(ctx, chatID, messageID, 0); err != nil {
			return err
		}
		p.answerCallback(ctx, cq.ID, fmt.Sprintf(i18n.Get("✅ Revoked verification for user %d", lang), action.UserID), true)
		return nil

	case panelActionBack:
		if err := p.editPanel(ctx, chatID, messageID); err != nil {
			return err
		}
		p.answerCallback(ctx, cq.ID, "", false)
		return nil

	case panelActionClose:
		if err := p.deleteMessage(ctx, chatID, messageID); err != nil {
			return err
		}
		p.answerCallback(ctx, cq.ID, "", false)
		return nil
	}

	return fmt.Errorf("%w: panel action %q", errs.ErrInvalidInput, action.Kind)
}

func (p *VerifyPanel) armPendingInput(ctx context.Context, cq *api.CallbackQuery, adminID int64, kind panelActionKind) error {
	lang := p.s.GetLanguage()

	var (
		pendingKind pending.Kind
		notice      string
	)
	switch kind {
	case panelActionShortlink:
		pendingKind, notice = pending.KindShortlinkURL, i18n.Get("Send the shortlink URL", lang)
	case panelActionAPI:
		pendingKind, notice = pending.KindShortlinkAPI, i18n.Get("Send the API key", lang)
	default:
		pendingKind, notice = pending.KindValidityHours, i18n.Get("Send the validity in hours", lang)
	}

	settings, err := p.store.GetVerifySettings(ctx)
	if err != nil {
		return fmt.Errorf("get verify settings: %w", err)
	}
	if err := p.pending.Set(ctx, adminID, pendingKind); err != nil {
		return fmt.Errorf("arm pending input: %w", err)
	}
	if err := p.editMessage(ctx, cq.Message.Chat.ID, cq.Message.MessageID, buildPromptView(kind, settings, lang), nil); err != nil {
		return err
	}
	p.answerCallback(ctx, cq.ID, notice, false)
	return nil
}
