package session

import (
	"fmt"
	"time"

	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/ui"
)

const warnThreshold = 60

// Ticker is the periodic clock driving the countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop() { t.t.Stop() }

// FormatRemaining renders seconds as m:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// armCountdown replaces the running countdown with one starting at
// seconds. The first value is shown immediately.
func (c *Controller) armCountdown(seconds int) {
	c.stopCountdown()
	c.remaining = seconds
	c.ticker = c.newTicker(time.Second)
	c.tick()
}

func (c *Controller) stopCountdown() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Controller) tickC() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C()
}

func (c *Controller) tick() {
	el := c.els[ui.TimeLeft]
	if c.remaining > warnThreshold {
		el.SetTone(ui.ToneSuccess)
	} else {
		el.SetTone(ui.ToneWarning)
	}
	left := max(c.remaining, 0)
	c.update(func(s *Snapshot) { s.TimeLeft = left })
	el.SetText(FormatRemaining(left))

	if c.remaining <= 0 {
		c.log.Info("session countdown exhausted", nil)
		c.enter(types.StateExpired)
		return
	}
	c.remaining--
}
