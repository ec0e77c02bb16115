package db

import (
	"context"
	"time"
)

type Client interface {
	Close() error

	GetVerifySettings(ctx context.Context) (*VerifySettings, error)
	UpdateVerifySettings(ctx context.Context, settings *VerifySettings) error

	MarkUserVerified(ctx context.Context, user *VerifiedUser) error
	IsUserVerified(ctx context.Context, userID int64, validity time.Duration) (bool, error)
	ListVerifiedUsers(ctx context.Context) ([]*VerifiedUser, error)
	CountVerifiedUsers(ctx context.Context) (int, error)
	RevokeUserVerification(ctx context.Context, userID int64) error
}
