package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

func isPanelCallback(data string) bool {
	return strings.HasPrefix(data, callbackPrefix) || data == callbackClose
}

func parsePanelAction(data string) (panelAction, error) {
	switch data {
	case callbackToggle:
		return panelAction{Kind: panelActionToggle}, nil
	case callbackRefresh:
		return panelAction{Kind: panelActionRefresh}, nil
	case callbackShortlink:
		return panelAction{Kind: panelActionShortlink}, nil
	case callbackAPI:
		return panelAction{Kind: panelActionAPI}, nil
	case callbackValidity:
		return panelAction{Kind: panelActionValidity}, nil
	case callbackBack:
		return panelAction{Kind: panelActionBack}, nil
	case callbackClose:
		return panelAction{Kind: panelActionClose}, nil
	}

	if payload, ok := strings.CutPrefix(data, callbackUsersPrefix); ok {
		page, err := strconv.Atoi(payload)
		if err != nil {
			return panelAction{}, fmt.Errorf("invalid users page %q: %w", payload, err)
		}
		return panelAction{Kind: panelActionUsers, Page: page}, nil
	}
	if payload, ok := strings.CutPrefix(data, callbackRevokePrefix); ok {
		userID, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			return panelAction{}, fmt.Errorf("invalid user id %q: %w", payload, err)
		}
		return panelAction{Kind: panelActionRevoke, UserID: userID}, nil
	}
	return panelAction{}, fmt.Errorf("unknown panel action %q", data)
}

func usersPageData(page int) string {
	return callbackUsersPrefix + strconv.Itoa(page)
}

func revokeData(userID int64) string {
	return callbackRevokePrefix + strconv.FormatInt(userID, 10)
}

// metricLabel keeps page numbers and user ids out of metric labels.
func (a panelAction) metricLabel() string {
	return string(a.Kind)
}
