package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/verifybot/internal/bot"
	"github.com/iamwavecut/verifybot/internal/handlers/base"
	"github.com/iamwavecut/verifybot/internal/i18n"
)

// Basic answers /start and /help in private chats.
type Basic struct {
	*base.BaseHandler
}

func NewBasic(s bot.Service) *Basic {
	return &Basic{BaseHandler: base.NewBaseHandler(s, "basic")}
}

func (b *Basic) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (proceed bool, err error) {
	if err := b.ValidateUpdate(u, chat, user); err != nil {
		if errors.Is(err, base.ErrNilUpdate) || errors.Is(err, base.ErrNilChatOrUser) {
			return true, nil
		}
		return true, err
	}
	if u.Message == nil || !u.Message.IsCommand() || !chat.IsPrivate() {
		return true, nil
	}

	lang := b.GetService().GetLanguage()
	var text string
	switch u.Message.Command() {
	case "start":
		text = i18n.Get("👋 Hi! I keep track of verified users.", lang)
		if status := b.verificationStatus(ctx, user.ID, lang); status != "" {
			text += "\n\n" + status
		}
	case "help":
		text = helpText(b.GetService().IsAdmin(user.ID), lang)
	default:
		return true, nil
	}

	if err := b.Reply(chat.ID, text); err != nil {
		b.GetLogger().WithField("error", err.Error()).Error("failed to reply")
		return false, fmt.Errorf("reply to %s: %w", u.Message.Command(), err)
	}
	return false, nil
}

// verificationStatus is empty while verification is off or cannot be checked.
func (b *Basic) verificationStatus(ctx context.Context, userID int64, lang string) string {
	store := b.GetService().GetDB()
	if store == nil {
		return ""
	}
	entry := b.GetLogger().WithField("user_id", userID)

	settings, err := store.GetVerifySettings(ctx)
	if err != nil {
		entry.WithField("error", err.Error()).Warn("cant load verify settings")
		return ""
	}
	if !settings.Enabled {
		return ""
	}
	verified, err := store.IsUserVerified(ctx, userID, settings.Validity())
	if err != nil {
		entry.WithField("error", err.Error()).Warn("cant check verification")
		return ""
	}
	if verified {
		return i18n.Get("✅ Your verification is active.", lang)
	}
	return i18n.Get("⏳ You are not verified yet.", lang)
}

func helpText(isAdmin bool, lang string) string {
	lines := []string{
		"<b>" + i18n.Get("Available commands", lang) + "</b>",
		"/start - " + i18n.Get("show the greeting", lang),
		"/help - " + i18n.Get("show this help", lang),
	}
	if isAdmin {
		lines = append(lines,
			"/verify_panel - "+i18n.Get("open the verification admin panel", lang),
			"/cancel - "+i18n.Get("cancel the value you were asked for", lang),
		)
	}
	return strings.Join(lines, "\n")
}
