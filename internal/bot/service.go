package bot

import (
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/verifybot/internal/db"
	"github.com/iamwavecut/verifybot/internal/i18n"
)

const fallbackLanguage = "en"

type service struct {
	bot      Sender
	db       db.Client
	admins   map[int64]struct{}
	language string
}

func NewService(bot Sender, db db.Client, admins []int64, language string) *service {
	set := make(map[int64]struct{}, len(admins))
	for _, id := range admins {
		set[id] = struct{}{}
	}
	if !i18n.IsSupported(language) {
		log.WithField("language", language).Warn("unsupported language, falling back to " + fallbackLanguage)
		language = fallbackLanguage
	}
	return &service{
		bot:      bot,
		db:       db,
		admins:   set,
		language: language,
	}
}

func (s *service) GetBot() Sender {
	return s.bot
}

func (s *service) GetDB() db.Client {
	return s.db
}

func (s *service) IsAdmin(userID int64) bool {
	_, ok := s.admins[userID]
	return ok
}

func (s *service) GetLanguage() string {
	return s.language
}
