// Package reaper runs periodic background sweeps over shared stores. A
// single abstraction covers both the session reaper and the rate-limit
// reaper: each is a named sweep function scheduled at a live-read interval.
package reaper

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Reaper periodically invokes Sweep. The interval is re-read before every
// cycle so configuration changes take effect between sweeps.
type Reaper struct {
	Name     string
	Interval func() time.Duration
	Sweep    func() int
}

// Run loops for the lifetime of the process: sleep, sweep, repeat. A fault
// in one sweep is logged and never escapes the loop, so a bad cycle cannot
// stop future sweeps or crash the process. There is no shutdown hook; run it
// on its own goroutine and let process termination end it.
func (r *Reaper) Run() {
	log.Info().
		Str("reaper", r.Name).
		Dur("interval", r.Interval()).
		Msg("Starting background reaper")
	for {
		time.Sleep(r.Interval())
		r.sweepOnce()
	}
}

func (r *Reaper) sweepOnce() {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Str("reaper", r.Name).
				Interface("panic", rec).
				Msg("Error in background sweep")
		}
	}()
	r.Sweep()
}
