package handlers

import (
	"context"
	"time"
)

func (p *VerifyPanel) startPendingSweep(ctx context.Context, sw sweeper) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(pendingSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sw.Sweep(ctx); n > 0 {
					p.getLogEntry().WithField("expired", n).Debug("swept pending inputs")
				}
			}
		}
	}()
}
