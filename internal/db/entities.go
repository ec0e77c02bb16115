package db

import "time"

type (
	// VerifySettings is the singleton configuration of the verification feature.
	// Empty strings mean the value was never set.
	VerifySettings struct {
		Enabled       bool   `db:"enabled"`
		ShortlinkURL  string `db:"shortlink_url"`
		ShortlinkAPI  string `db:"shortlink_api"`
		ValidityHours int    `db:"validity_hours"`
	}

	VerifiedUser struct {
		UserID     int64     `db:"user_id"`
		Username   string    `db:"username"`
		VerifiedAt time.Time `db:"verified_at"`
	}
)

func (s *VerifySettings) HasShortlinkURL() bool {
	return s != nil && s.ShortlinkURL != ""
}

func (s *VerifySettings) HasShortlinkAPI() bool {
	return s != nil && s.ShortlinkAPI != ""
}

// Validity is the time a completed verification stays valid.
func (s *VerifySettings) Validity() time.Duration {
	if s == nil || s.ValidityHours <= 0 {
		return DefaultValidityHours * time.Hour
	}
	return time.Duration(s.ValidityHours) * time.Hour
}
