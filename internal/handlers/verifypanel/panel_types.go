package handlers

import (
	api "github.com/OvyFlash/telegram-bot-api"
)

type panelActionKind string

const (
	panelActionToggle    panelActionKind = "toggle"
	panelActionRefresh   panelActionKind = "refresh"
	panelActionUsers     panelActionKind = "users"
	panelActionShortlink panelActionKind = "shortlink"
	panelActionAPI       panelActionKind = "api"
	panelActionValidity  panelActionKind = "validity"
	panelActionRevoke    panelActionKind = "revoke"
	panelActionBack      panelActionKind = "back"
	panelActionClose     panelActionKind = "close"
)

// panelAction is a decoded callback identifier.
type panelAction struct {
	Kind   panelActionKind
	Page   int
	UserID int64
}

type panelView struct {
	Text   string
	Markup api.InlineKeyboardMarkup
}

type usersView struct {
	panelView
	Page       int
	TotalPages int
	Total      int
}
