package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

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

const metricCommand = "command"

func (p *VerifyPanel) handlePanelCommand(ctx context.Context, msg *api.Message, chat *api.Chat, user *api.User) (bool, error) {
	ctx, end := observability.StartSpan(ctx, "verify_panel.command")
	defer end()

	entry := p.getLogEntry().WithFields(log.Fields{
		"method":      "handlePanelCommand",
		"user_id":     user.ID,
		"interaction": uuid.New(),
	})
	lang := p.s.GetLanguage()

	if err := p.authorize(user); err != nil {
		entry.WithField("error", err.Error()).Debug("verify panel denied")
		observability.RecordPanelAction(metricCommand, "denied")
		if _, err := p.sendMessage(ctx, chat.ID, i18n.Get("⛔ This command is only for admins!", lang), nil); err != nil {
			entry.WithField("error", err.Error()).Error("failed to send denial")
		}
		return false, nil
	}

	if err := p.sendPanel(ctx, chat.ID); err != nil {
		entry.WithField("error", err.Error()).Error("failed to open verify panel")
		observability.RecordPanelAction(metricCommand, "error")
		p.reportError(ctx, chat.ID, err)
		return false, nil
	}
	observability.RecordPanelAction(metricCommand, "ok")
	return false, nil
}

// handlePanelInput consumes the armed input of the sender, if any.
// Without an armed input the message is left to the next handler.
func (p *VerifyPanel) handlePanelInput(ctx context.Context, msg *api.Message, chat *api.Chat, user *api.User) (bool, error) {
	entry := p.getLogEntry().WithFields(log.Fields{
		"method":  "handlePanelInput",
		"user_id": user.ID,
	})

	kind, ok, err := p.pending.Take(ctx, user.ID)
	if err != nil {
		entry.WithField("error", err.Error()).Error("failed to take pending input")
		return true, nil
	}
	if !ok {
		return true, nil
	}

	ctx, end := observability.StartSpan(ctx, "verify_panel.input")
	defer end()
	entry = entry.WithFields(log.Fields{"kind": kind, "interaction": uuid.New()})
	action := "input_" + string(kind)
	lang := p.s.GetLanguage()

	if strings.EqualFold(msg.Text, commandCancel) {
		entry.Debug("pending input cancelled")
		observability.RecordPanelAction(action, "cancelled")
		if _, err := p.sendMessage(ctx, chat.ID, i18n.Get("❌ Cancelled!", lang), nil); err != nil {
			entry.WithField("error", err.Error()).Error("failed to confirm cancel")
		}
		return false, nil
	}

	reply, err := p.applyPendingInput(ctx, user.ID, kind, msg.Text)
	switch {
	case err == nil:
		observability.RecordPanelAction(action, "ok")
	case errs.IsValidation(err):
		entry.WithField("error", err.Error()).Debug("rejected pending input")
		observability.RecordPanelAction(action, "rejected")
	default:
		entry.WithField("error", err.Error()).Error("failed to apply pending input")
		observability.RecordPanelAction(action, "error")
		p.reportError(ctx, chat.ID, err)
		return true, nil
	}

	if _, err := p.sendMessage(ctx, chat.ID, reply, nil); err != nil {
		entry.WithField("error", err.Error()).Error("failed to send input reply")
	}
	return false, nil
}

// applyPendingInput stores text as the value of kind and returns the reply for the admin.
// Validation errors come with a reply explaining the rejection.
func (p *VerifyPanel) applyPendingInput(ctx context.Context, adminID int64, kind pending.Kind, text string) (string, error) {
	lang := p.s.GetLanguage()
	value := strings.TrimSpace(text)

	switch kind {
	case pending.KindShortlinkURL:
		if _, err := p.updateSettings(ctx, func(s *db.VerifySettings) { s.ShortlinkURL = value }); err != nil {
			return "", err
		}
		observability.Audit("verify_panel.shortlink_url", adminID, zap.String("shortlink_url", value))
		return fmt.Sprintf(i18n.Get("✅ Shortlink URL set to: %s", lang), "<code>"+html.EscapeString(value)+"</code>"), nil

	case pending.KindShortlinkAPI:
		if _, err := p.updateSettings(ctx, func(s *db.VerifySettings) { s.ShortlinkAPI = value }); err != nil {
			return "", err
		}
		observability.Audit("verify_panel.shortlink_api", adminID, zap.String("shortlink_api", maskAPIKey(value, "")))
		return i18n.Get("✅ Shortlink API key saved successfully!", lang), nil

	case pending.KindValidityHours:
		hours, err := parseValidityHours(value)
		if errors.Is(err, errs.ErrOutOfRange) {
			return fmt.Sprintf(i18n.Get("❌ Please enter a number between %d and %d hours!", lang), db.MinValidityHours, db.MaxValidityHours), err
		}
		if err != nil {
			return i18n.Get("❌ Please enter a valid number!", lang), err
		}
		if _, err := p.updateSettings(ctx, func(s *db.VerifySettings) { s.ValidityHours = hours }); err != nil {
			return "", err
		}
		observability.Audit("verify_panel.validity", adminID, zap.Int("validity_hours", hours))
		return fmt.Sprintf(i18n.Get("✅ Verification validity set to %s!", lang), "<code>"+fmt.Sprintf(i18n.Get("%d hours", lang), hours)+"</code>"), nil
	}

	return "", fmt.Errorf("unknown pending kind %q", kind)
}

func parseValidityHours(value string) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidInput, value)
	}
	if hours < db.MinValidityHours || hours > db.MaxValidityHours {
		return 0, fmt.Errorf("%w: %d hours", errs.ErrOutOfRange, hours)
	}
	return hours, nil
}
