package base

import (
	"errors"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/verifybot/internal/bot"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	service bot.Service
	logger  *log.Entry
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(service bot.Service, handlerName string) *BaseHandler {
	return &BaseHandler{
		service: service,
		logger:  log.WithField("handler", handlerName),
	}
}

// GetService returns the bot service
func (h *BaseHandler) GetService() bot.Service {
	return h.service
}

// GetLogger returns the handler's logger
func (h *BaseHandler) GetLogger() *log.Entry {
	return h.logger
}

// ValidateUpdate performs common update validation
func (h *BaseHandler) ValidateUpdate(u *api.Update, chat *api.Chat, user *api.User) error {
	if u == nil {
		return ErrNilUpdate
	}
	if chat == nil || user == nil {
		return ErrNilChatOrUser
	}
	return nil
}

// Reply sends an HTML message to chatID.
func (h *BaseHandler) Reply(chatID int64, text string) error {
	msg := api.NewMessage(chatID, text)
	msg.ParseMode = api.ModeHTML
	_, err := h.service.GetBot().Send(msg)
	return err
}

var (
	ErrNilUpdate     = errors.New("nil update")
	ErrNilChatOrUser = errors.New("nil chat or user")
)
