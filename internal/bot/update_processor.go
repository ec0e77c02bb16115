package bot

import (
	"context"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/verifybot/internal/observability"
)

const (
	UpdateTimeout = 5 * time.Minute
)

type (
	UpdateProcessor struct {
		s                  Service
		registeredHandlers map[string]Handler
		updateHandlers     []Handler
	}

	UpdatesSource interface {
		GetUpdates(config api.UpdateConfig) ([]api.Update, error)
	}
)

func NewUpdateProcessor(s Service) *UpdateProcessor {
	return &UpdateProcessor{
		s:                  s,
		registeredHandlers: make(map[string]Handler),
	}
}

func (up *UpdateProcessor) RegisterUpdateHandler(title string, handler Handler) {
	up.registeredHandlers[title] = handler
}

// Enable builds the handler chain in the given order. Unknown names are skipped.
func (up *UpdateProcessor) Enable(handlerNames []string) {
	enabledHandlers := make([]Handler, 0, len(handlerNames))
	for _, handlerName := range handlerNames {
		handler, ok := up.registeredHandlers[handlerName]
		if !ok || handler == nil {
			log.Warnf("no registered handler: %s", handlerName)
			continue
		}
		enabledHandlers = append(enabledHandlers, handler)
	}
	up.updateHandlers = enabledHandlers
}

func (up *UpdateProcessor) Process(ctx context.Context, u *api.Update) (err error) {
	if u == nil {
		return errors.New("update is nil")
	}
	done := observability.StartUpdateProcessing()
	defer func() {
		if err != nil {
			done("error")
			return
		}
		done("ok")
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var updateTime time.Time
	switch {
	case u.Message != nil:
		updateTime = time.Unix(int64(u.Message.Date), 0)
	case u.EditedMessage != nil:
		updateTime = time.Unix(int64(u.EditedMessage.Date), 0)
	default:
		updateTime = time.Now()
	}

	if time.Since(updateTime) > UpdateTimeout {
		log.WithFields(log.Fields{
			"update_time": updateTime,
			"age":         time.Since(updateTime),
		}).Debug("Skipping outdated update")
		return nil
	}

	chat := u.FromChat()
	user := u.SentFrom()

	for _, handler := range up.updateHandlers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		proceed, err := handler.Handle(ctx, u, chat, user)
		if err != nil {
			return errors.WithMessage(err, "handling error")
		}
		if !proceed {
			log.Trace("not proceeding")
			return nil
		}
	}
	return nil
}

func DeleteChatMessage(ctx context.Context, bot Sender, chatID int64, messageID int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		if _, err := bot.Request(api.NewDeleteMessage(chatID, messageID)); err != nil {
			return errors.WithMessage(err, "cant delete message")
		}
		return nil
	}
}

func GetUpdatesChans(ctx context.Context, source UpdatesSource, buffer int, config api.UpdateConfig) (api.UpdatesChannel, chan error) {
	ch := make(chan api.Update, buffer)
	chErr := make(chan error, 1)

	go func() {
		defer close(ch)
		defer close(chErr)
		for {
			select {
			case <-ctx.Done():
				chErr <- ctx.Err()
				return
			default:
				updates, err := source.GetUpdates(config)
				if err != nil {
					chErr <- err
					return
				}

				for _, update := range updates {
					if update.UpdateID >= config.Offset {
						config.Offset = update.UpdateID + 1
						select {
						case ch <- update:
						case <-ctx.Done():
							chErr <- ctx.Err()
							return
						}
					}
				}
			}
		}
	}()

	return ch, chErr
}
