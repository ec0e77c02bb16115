package handlers

import "time"

const (
	commandVerifyPanel = "verify_panel"
	commandCancel      = "/cancel"
)

// Commands that never reach the pending input router.
var reservedCommands = []string{"start", "help", commandVerifyPanel}

const (
	callbackPrefix = "vp_"

	callbackToggle       = "vp_toggle"
	callbackRefresh      = "vp_refresh"
	callbackUsersPrefix  = "vp_users_"
	callbackShortlink    = "vp_shortlink"
	callbackAPI          = "vp_api"
	callbackValidity     = "vp_validity"
	callbackRevokePrefix = "vp_revoke_"
	callbackBack         = "vp_back"
	callbackClose        = "close_data"
)

const (
	usersPageSize      = 10
	usersPerButtonRow  = 2
	userButtonLabelLen = 15

	apiKeyMaskMinLen = 12
	apiKeyMaskPrefix = 8
	apiKeyMaskSuffix = 4
	apiKeyMaskShort  = "****"

	panelDivider = "━━━━━━━━━━━━━━━━━━━━"
)

const (
	pendingSweepInterval = time.Minute
)
