package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/iamwavecut/verifybot/internal/db"
)

func (c *sqliteClient) MarkUserVerified(ctx context.Context, user *db.VerifiedUser) error {
	if user == nil {
		return errors.New("nil user")
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	verifiedAt := user.VerifiedAt
	if verifiedAt.IsZero() {
		verifiedAt = time.Now()
	}
	query := `
		INSERT INTO verified_users (user_id, username, verified_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		verified_at = excluded.verified_at
	`
	if _, err := c.db.ExecContext(ctx, query, user.UserID, user.Username, verifiedAt.UTC()); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

func (c *sqliteClient) IsUserVerified(ctx context.Context, userID int64, validity time.Duration) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var verifiedAt time.Time
	err := c.db.GetContext(ctx, &verifiedAt, `SELECT verified_at FROM verified_users WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get verified user: %w", err)
	}
	return time.Since(verifiedAt) < validity, nil
}

func (c *sqliteClient) ListVerifiedUsers(ctx context.Context) ([]*db.VerifiedUser, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var users []*db.VerifiedUser
	query := `
		SELECT user_id, username, verified_at
		FROM verified_users
		ORDER BY verified_at, user_id
	`
	if err := c.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list verified users: %w", err)
	}
	return users, nil
}

func (c *sqliteClient) CountVerifiedUsers(ctx context.Context) (int, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var count int
	if err := c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM verified_users`); err != nil {
		return 0, fmt.Errorf("failed to count verified users: %w", err)
	}
	return count, nil
}

// RevokeUserVerification is a no-op for users that are not verified.
func (c *sqliteClient) RevokeUserVerification(ctx context.Context, userID int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, err := c.db.ExecContext(ctx, `DELETE FROM verified_users WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to revoke user verification: %w", err)
	}
	return nil
}
