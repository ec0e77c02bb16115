package handlers

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/iamwavecut/verifybot/internal/db"
	"github.com/iamwavecut/verifybot/internal/i18n"
)

func buildPanelView(settings *db.VerifySettings, verifiedCount int, lang string) panelView {
	if settings == nil {
		settings = db.DefaultVerifySettings()
	}

	status := fmt.Sprintf("%s %s", statusEmoji(settings.Enabled), i18n.Get("OFF", lang))
	toggleLabel := "🟢 " + i18n.Get("Turn ON", lang)
	if settings.Enabled {
		status = fmt.Sprintf("%s %s", statusEmoji(settings.Enabled), i18n.Get("ON", lang))
		toggleLabel = "🔴 " + i18n.Get("Turn OFF", lang)
	}

	shortlinkURL := i18n.Get("Not Set", lang)
	if settings.HasShortlinkURL() {
		shortlinkURL = html.EscapeString(settings.ShortlinkURL)
	}
	apiKey := i18n.Get("Not Set", lang)
	if settings.HasShortlinkAPI() {
		apiKey = html.EscapeString(maskAPIKey(settings.ShortlinkAPI, lang))
	}

	var b strings.Builder
	b.WriteString("<b>🔐 " + i18n.Get("Verification Admin Panel", lang) + "</b>\n\n")
	b.WriteString(panelDivider + "\n\n")
	fmt.Fprintf(&b, "<b>📊 %s:</b> %s\n", i18n.Get("Status", lang), status)
	fmt.Fprintf(&b, "<b>👥 %s:</b> %d\n", i18n.Get("Verified Users", lang), verifiedCount)
	fmt.Fprintf(&b, "<b>⏰ %s:</b> <code>%s</code>\n", i18n.Get("Validity", lang), fmt.Sprintf(i18n.Get("%d hours", lang), settings.ValidityHours))
	fmt.Fprintf(&b, "<b>🔗 %s:</b> <code>%s</code>\n", i18n.Get("Shortlink URL", lang), shortlinkURL)
	fmt.Fprintf(&b, "<b>🔑 %s:</b> <code>%s</code>\n\n", i18n.Get("Shortlink API", lang), apiKey)
	b.WriteString(panelDivider + "\n\n")
	b.WriteString("<i>" + i18n.Get("Use the buttons below to manage verification:", lang) + "</i>")

	keyboard := api.NewInlineKeyboardMarkup(
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData(toggleLabel, callbackToggle),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("👥 "+i18n.Get("View Users", lang), usersPageData(0)),
			api.NewInlineKeyboardButtonData("⏰ "+i18n.Get("Set Validity", lang), callbackValidity),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("🔗 "+i18n.Get("Set Shortlink", lang), callbackShortlink),
			api.NewInlineKeyboardButtonData("🔑 "+i18n.Get("Set API Key", lang), callbackAPI),
		),
		api.NewInlineKeyboardRow(
			api.NewInlineKeyboardButtonData("🔄 "+i18n.Get("Refresh", lang), callbackRefresh),
			api.NewInlineKeyboardButtonData("❌ "+i18n.Get("Close", lang), callbackClose),
		),
	)

	return panelView{Text: b.String(), Markup: keyboard}
}

// maskAPIKey never exposes more than the first 8 and the last 4 characters of key.
func maskAPIKey(key string, lang string) string {
	if key == "" {
		return i18n.Get("Not Set", lang)
	}
	runes := []rune(key)
	if len(runes) <= apiKeyMaskMinLen {
		return apiKeyMaskShort
	}
	return string(runes[:apiKeyMaskPrefix]) + "..." + string(runes[len(runes)-apiKeyMaskSuffix:])
}

func buildUsersView(users []*db.VerifiedUser, page int, lang string) usersView {
	total := len(users)
	totalPages := pageCount(total, usersPageSize)
	page = clampPage(page, totalPages)

	backRow := api.NewInlineKeyboardRow(
		api.NewInlineKeyboardButtonData("🔙 "+i18n.Get("Back to Panel", lang), callbackBack),
	)

	if total == 0 {
		text := "<b>👥 " + i18n.Get("Verified Users", lang) + "</b>\n\n" +
			panelDivider + "\n\n" +
			"<i>" + i18n.Get("No verified users found.", lang) + "</i>\n\n" +
			panelDivider
		return usersView{
			panelView:  panelView{Text: text, Markup: api.NewInlineKeyboardMarkup(backRow)},
			Page:       page,
			TotalPages: totalPages,
		}
	}

	start := page * usersPageSize
	end := minInt(start+usersPageSize, total)
	pageUsers := users[start:end]

	var b strings.Builder
	fmt.Fprintf(&b, "<b>👥 %s</b>\n\n", fmt.Sprintf(i18n.Get("Verified Users (%d total)", lang), total))
	b.WriteString(panelDivider + "\n\n")
	for i, user := range pageUsers {
		fmt.Fprintf(&b, "<b>%d.</b> %s | <code>%d</code>\n", start+i+1, displayUsername(user, lang), user.UserID)
	}
	b.WriteString("\n" + panelDivider + "\n\n")
	fmt.Fprintf(&b, "<i>%s</i>", fmt.Sprintf(i18n.Get("Page %d/%d", lang), page+1, totalPages))

	buttons := make([]api.InlineKeyboardButton, 0, len(pageUsers))
	for _, user := range pageUsers {
		buttons = append(buttons, api.NewInlineKeyboardButtonData("❌ "+revokeLabel(user), revokeData(user.UserID)))
	}
	rows := chunkButtons(buttons, usersPerButtonRow)

	var nav []api.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, api.NewInlineKeyboardButtonData("⬅️ "+i18n.Get("Previous", lang), usersPageData(page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, api.NewInlineKeyboardButtonData(i18n.Get("Next", lang)+" ➡️", usersPageData(page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, api.NewInlineKeyboardRow(nav...))
	}
	rows = append(rows, backRow)

	return usersView{
		panelView:  panelView{Text: b.String(), Markup: api.NewInlineKeyboardMarkup(rows...)},
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

func displayUsername(user *db.VerifiedUser, lang string) string {
	if user.Username == "" {
		return i18n.Get("Unknown", lang)
	}
	return "@" + html.EscapeString(user.Username)
}

func revokeLabel(user *db.VerifiedUser) string {
	if user.Username == "" {
		return strconv.FormatInt(user.UserID, 10)
	}
	runes := []rune(user.Username)
	if len(runes) > userButtonLabelLen {
		runes = runes[:userButtonLabelLen]
	}
	return string(runes)
}

func buildPromptView(action panelActionKind, settings *db.VerifySettings, lang string) string {
	if settings == nil {
		settings = db.DefaultVerifySettings()
	}
	cancelHint := "<i>" + fmt.Sprintf(i18n.Get("Send %s to cancel.", lang), "<code>"+commandCancel+"</code>") + "</i>"

	switch action {
	case panelActionShortlink:
		return "<b>🔗 " + i18n.Get("Set Shortlink URL", lang) + "</b>\n\n" +
			i18n.Get("Send me the shortlink domain you want to use.", lang) + "\n" +
			fmt.Sprintf(i18n.Get("Example: %s", lang), "<code>example.com</code>") + "\n\n" +
			cancelHint
	case panelActionAPI:
		return "<b>🔑 " + i18n.Get("Set Shortlink API Key", lang) + "</b>\n\n" +
			i18n.Get("Send me the API key of your shortlink service.", lang) + "\n\n" +
			cancelHint
	case panelActionValidity:
		return "<b>⏰ " + i18n.Get("Set Verification Validity", lang) + "</b>\n\n" +
			fmt.Sprintf(i18n.Get("Current validity: %s", lang), "<code>"+fmt.Sprintf(i18n.Get("%d hours", lang), settings.ValidityHours)+"</code>") + "\n\n" +
			fmt.Sprintf(i18n.Get("Send me the number of hours between %d and %d.", lang), db.MinValidityHours, db.MaxValidityHours) + "\n\n" +
			cancelHint
	default:
		return ""
	}
}

func chunkButtons(buttons []api.InlineKeyboardButton, perRow int) [][]api.InlineKeyboardButton {
	if len(buttons) == 0 {
		return nil
	}
	var rows [][]api.InlineKeyboardButton
	for i := 0; i < len(buttons); i += perRow {
		end := i + perRow
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, api.NewInlineKeyboardRow(buttons[i:end]...))
	}
	return rows
}

func statusEmoji(enabled bool) string {
	if enabled {
		return "✅"
	}
	return "❌"
}

func pageCount(total int, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func clampPage(page int, totalPages int) int {
	if totalPages <= 0 {
		return 0
	}
	if page < 0 {
		return 0
	}
	if page >= totalPages {
		return totalPages - 1
	}
	return page
}

func minInt(a int, b int) int {
	if a < b {
		return a
	}
	return b
}
