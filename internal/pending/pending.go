// Package pending tracks which configuration value an admin is expected to type next.
//
// Each admin holds at most one armed kind. Arming again replaces the previous kind,
// and the entry is removed exactly once, by Take or by Clear.
package pending

import (
	"context"
	"fmt"
)

type Kind string

const (
	KindShortlinkURL  Kind = "shortlink_url"
	KindShortlinkAPI  Kind = "shortlink_api"
	KindValidityHours Kind = "validity_hours"
)

func (k Kind) Valid() bool {
	switch k {
	case KindShortlinkURL, KindShortlinkAPI, KindValidityHours:
		return true
	default:
		return false
	}
}

func ParseKind(value string) (Kind, error) {
	kind := Kind(value)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown pending kind %q", value)
	}
	return kind, nil
}

type Store interface {
	// Get reports the armed kind without consuming it.
	Get(ctx context.Context, adminID int64) (Kind, bool, error)
	// Set arms kind for adminID, replacing any unconsumed entry.
	Set(ctx context.Context, adminID int64, kind Kind) error
	// Take returns and removes the armed kind in one step.
	Take(ctx context.Context, adminID int64) (Kind, bool, error)
	Clear(ctx context.Context, adminID int64) error
}
