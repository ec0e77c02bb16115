package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamwavecut/tool"
	"github.com/pkg/errors"

	"github.com/iamwavecut/verifybot/internal/db"
)

const verifySettingsRowID = 1

func (c *sqliteClient) GetVerifySettings(ctx context.Context) (*db.VerifySettings, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	query := `
		SELECT enabled, shortlink_url, shortlink_api, validity_hours
		FROM verify_settings
		WHERE id = ?
	`
	settings := &db.VerifySettings{}
	if err := c.db.GetContext(ctx, settings, query, verifySettingsRowID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.DefaultVerifySettings(), nil
		}
		return nil, fmt.Errorf("failed to get verify settings: %w", err)
	}
	return settings, nil
}

func (c *sqliteClient) UpdateVerifySettings(ctx context.Context, settings *db.VerifySettings) error {
	if settings == nil {
		return errors.New("nil settings")
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO verify_settings (id, enabled, shortlink_url, shortlink_api, validity_hours, updated_at)
		VALUES (:id, :enabled, :shortlink_url, :shortlink_api, :validity_hours, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		enabled = excluded.enabled,
		shortlink_url = excluded.shortlink_url,
		shortlink_api = excluded.shortlink_api,
		validity_hours = excluded.validity_hours,
		updated_at = excluded.updated_at
	`
	row := map[string]any{
		"id":             verifySettingsRowID,
		"enabled":        settings.Enabled,
		"shortlink_url":  settings.ShortlinkURL,
		"shortlink_api":  settings.ShortlinkAPI,
		"validity_hours": settings.ValidityHours,
	}
	return tool.Err(c.db.NamedExecContext(ctx, query, row))
}
