package infra

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// RecoverDelay is the pause before a panicked job is started again.
var RecoverDelay = 5 * time.Second

// GoRecoverable runs f until it returns, restarting it after a panic.
// A negative maxPanics allows unlimited restarts. Exceeding the limit returns an error.
func GoRecoverable(ctx context.Context, maxPanics int, id string, f func(ctx context.Context) error) error {
	for {
		err, panicked := runGuarded(ctx, id, f)
		if !panicked {
			return err
		}
		if maxPanics == 0 {
			return fmt.Errorf("panics limit exceeded for job %q", id)
		}
		if maxPanics > 0 {
			maxPanics--
			log.Debugf(`Recovering job "%s" with max panics left: %d`, id, maxPanics)
		} else {
			log.Debugf(`Recovering job "%s"`, id)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RecoverDelay):
		}
	}
}

func runGuarded(ctx context.Context, id string, f func(ctx context.Context) error) (err error, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(`Job "%s" panics with message: %v, %s`, id, r, identifyPanic())
			panicked = true
		}
	}()
	return f(ctx), false
}

func identifyPanic() string {
	var name, file string
	var line int
	var pc [16]uintptr

	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			break
		}
	}

	switch {
	case name != "":
		return fmt.Sprintf("%v:%v", name, line)
	case file != "":
		return fmt.Sprintf("%v:%v", file, line)
	}

	return fmt.Sprintf("pc:%x", pc)
}
