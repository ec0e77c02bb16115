package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/verifybot/internal/bot"
	"github.com/iamwavecut/verifybot/internal/db"
	"github.com/iamwavecut/verifybot/internal/i18n"
)

func (p *VerifyPanel) loadPanelView(ctx context.Context) (panelView, error) {
	settings, err := p.store.GetVerifySettings(ctx)
	if err != nil {
		return panelView{}, fmt.Errorf("get verify settings: %w", err)
	}
	count, err := p.store.CountVerifiedUsers(ctx)
	if err != nil {
		return panelView{}, fmt.Errorf("count verified users: %w", err)
	}
	return buildPanelView(settings, count, p.s.GetLanguage()), nil
}

func (p *VerifyPanel) loadUsersView(ctx context.Context, page int) (usersView, error) {
	users, err := p.store.ListVerifiedUsers(ctx)
	if err != nil {
		return usersView{}, fmt.Errorf("list verified users: %w", err)
	}
	return buildUsersView(users, page, p.s.GetLanguage()), nil
}

// updateSettings applies mutate to a fresh copy of the settings and writes the whole record back.
func (p *VerifyPanel) updateSettings(ctx context.Context, mutate func(settings *db.VerifySettings)) (*db.VerifySettings, error) {
	p.settingsMu.Lock()
	defer p.settingsMu.Unlock()

	settings, err := p.store.GetVerifySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get verify settings: %w", err)
	}
	mutate(settings)
	if err := p.store.UpdateVerifySettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("update verify settings: %w", err)
	}
	return settings, nil
}

func (p *VerifyPanel) sendPanel(ctx context.Context, chatID int64) error {
	view, err := p.loadPanelView(ctx)
	if err != nil {
		return err
	}
	_, err = p.sendMessage(ctx, chatID, view.Text, &view.Markup)
	return err
}

func (p *VerifyPanel) editPanel(ctx context.Context, chatID int64, messageID int) error {
	view, err := p.loadPanelView(ctx)
	if err != nil {
		return err
	}
	return p.editMessage(ctx, chatID, messageID, view.Text, &view.Markup)
}

func (p *VerifyPanel) editUsers(ctx context.Context, chatID int64, messageID int, page int) error {
	view, err := p.loadUsersView(ctx, page)
	if err != nil {
		return err
	}
	return p.editMessage(ctx, chatID, messageID, view.Text, &view.Markup)
}

func (p *VerifyPanel) sendMessage(ctx context.Context, chatID int64, text string, markup *api.InlineKeyboardMarkup) (api.Message, error) {
	msg := api.NewMessage(chatID, text)
	msg.ParseMode = api.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return p.s.GetBot().Send(msg)
}

// editMessage treats an unchanged message as success.
func (p *VerifyPanel) editMessage(ctx context.Context, chatID int64, messageID int, text string, markup *api.InlineKeyboardMarkup) error {
	edit := api.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = api.ModeHTML
	edit.ReplyMarkup = markup
	if _, err := p.s.GetBot().Send(edit); err != nil && !isMessageNotModifiedError(err) {
		return err
	}
	return nil
}

func (p *VerifyPanel) deleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return bot.DeleteChatMessage(ctx, p.s.GetBot(), chatID, messageID)
}

func (p *VerifyPanel) answerCallback(ctx context.Context, callbackID string, text string, alert bool) {
	callback := api.NewCallback(callbackID, text)
	callback.ShowAlert = alert
	if _, err := p.s.GetBot().Request(callback); err != nil {
		p.getLogEntry().WithField("error", err.Error()).Warn("failed to answer callback")
	}
}

// reportError tells the admin about an unexpected failure.
func (p *VerifyPanel) reportError(ctx context.Context, chatID int64, err error) {
	text := fmt.Sprintf(i18n.Get("❌ Error: %s", p.s.GetLanguage()), html.EscapeString(err.Error()))
	if _, sendErr := p.sendMessage(ctx, chatID, text, nil); sendErr != nil {
		p.getLogEntry().WithField("error", sendErr.Error()).Error("failed to report error")
	}
}

func isMessageNotModifiedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "message is not modified")
}
